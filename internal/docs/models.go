/*
Package docs collects the markdown documentation pages of the project into an
immutable, name-sorted Collection.

The collection is built once at startup and shared read-only by every request
handler. TotalCount is always derived from the page slice, never stored.
*/
package docs

import (
	"encoding/json"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pmui/pmui-mcp/internal/search"
	"github.com/rs/zerolog/log"
)

// PageSummary is a page without its content.
type PageSummary struct {
	// Name is the slash-separated path relative to the doc root (unique key).
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	FilePath    string `json:"file_path"`
}

// Page is a documentation page including its raw markdown.
type Page struct {
	PageSummary
	Content string `json:"content"`
}

// ScoredSummary is a page search result.
type ScoredSummary struct {
	PageSummary
	RelevanceScore int `json:"relevance_score"`
}

// Scored drops page content from search hits.
func Scored(hits []search.Hit[Page]) []ScoredSummary {
	out := make([]ScoredSummary, len(hits))
	for i, h := range hits {
		out[i] = ScoredSummary{PageSummary: h.Item.PageSummary, RelevanceScore: h.Score}
	}
	return out
}

// SearchFields implements search.Document.
func (p Page) SearchFields() search.Fields {
	return search.Fields{Title: p.Title, Name: p.Name, Body: p.Description}
}

// Collection is an immutable set of pages sorted by name.
type Collection struct {
	pages     []Page
	names     []string
	timestamp time.Time
	docRoot   string
}

// NewCollection copies pages, sorts them by name and drops duplicate names
// (the first occurrence wins).
func NewCollection(docRoot string, pages []Page, timestamp time.Time) *Collection {
	sorted := make([]Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c := &Collection{timestamp: timestamp, docRoot: docRoot}
	for _, p := range sorted {
		if n := len(c.pages); n > 0 && c.pages[n-1].Name == p.Name {
			log.Warn().Str("page", p.Name).Msg("duplicate page name ignored")
			continue
		}
		c.pages = append(c.pages, p)
		c.names = append(c.names, p.Name)
	}
	return c
}

// TotalCount returns the number of pages.
func (c *Collection) TotalCount() int { return len(c.pages) }

// Timestamp returns the build time.
func (c *Collection) Timestamp() time.Time { return c.timestamp }

// DocRoot returns the directory the collection was built from.
func (c *Collection) DocRoot() string { return c.docRoot }

// Pages returns a copy of all pages in name order.
func (c *Collection) Pages() []Page {
	out := make([]Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Summaries returns every page without content.
func (c *Collection) Summaries() []PageSummary {
	out := make([]PageSummary, len(c.pages))
	for i, p := range c.pages {
		out[i] = p.PageSummary
	}
	return out
}

// Get looks a page up by name, ignoring case. A miss returns a
// *search.NotFoundError with suggestions.
func (c *Collection) Get(name string) (Page, error) {
	idx, err := search.Find("page", c.names, name)
	if err != nil {
		return Page{}, err
	}
	return c.pages[idx], nil
}

// ReferencePage returns the reference guide page for a component, that is the
// page under reference/ whose file name without extension equals component.
func (c *Collection) ReferencePage(component string) (Page, error) {
	var stems []string
	var refs []int
	for i, p := range c.pages {
		if !strings.HasPrefix(p.Name, "reference/") {
			continue
		}
		stems = append(stems, strings.TrimSuffix(path.Base(p.Name), path.Ext(p.Name)))
		refs = append(refs, i)
	}

	idx, err := search.Find("page", stems, component)
	if err != nil {
		return Page{}, err
	}
	return c.pages[refs[idx]], nil
}

// Search ranks pages by title, name and description.
func (c *Collection) Search(query string, limit int) []search.Hit[Page] {
	return search.Rank(c.pages, query, limit)
}

// Categories counts pages per top-level directory; top-level pages count as "root".
func (c *Collection) Categories() map[string]int {
	out := make(map[string]int)
	for _, p := range c.pages {
		category := "root"
		if i := strings.Index(p.Name, "/"); i > 0 {
			category = p.Name[:i]
		}
		out[category]++
	}
	return out
}

type collectionJSON struct {
	Pages      []Page    `json:"pages"`
	Timestamp  time.Time `json:"timestamp"`
	TotalCount int       `json:"total_count"`
	DocRoot    string    `json:"doc_root"`
}

// MarshalJSON writes the collection with its derived total_count.
func (c *Collection) MarshalJSON() ([]byte, error) {
	pages := c.pages
	if pages == nil {
		pages = []Page{}
	}
	return json.Marshal(collectionJSON{
		Pages:      pages,
		Timestamp:  c.timestamp,
		TotalCount: len(c.pages),
		DocRoot:    c.docRoot,
	})
}

// UnmarshalJSON rebuilds the collection; a stored total_count is ignored.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw collectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewCollection(raw.DocRoot, raw.Pages, raw.Timestamp)
	return nil
}
