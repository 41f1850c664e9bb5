/*
Package search implements ranking over the in-memory documentation and
component collections.

Rank is the canonical keyword scorer: tokenized, order-aware and pure, so it
can be called from any number of request handlers at once. RankSimple is the
older single-term scorer kept for configurations that still select it.
ContentIndex adds a Bleve full-text index over raw page content.
*/
package search

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 10

// Fields are the three ranked fields of a record, in decreasing weight.
// Pages map title/name/description; components map name/module_path/docstring.
type Fields struct {
	Title string
	Name  string
	Body  string
}

// Document is anything that can be ranked.
type Document interface {
	SearchFields() Fields
}

// Hit is a ranked record with its relevance score.
type Hit[T any] struct {
	Item  T
	Score int
}

// ContentHit is a page returned by the full-text content index.
type ContentHit struct {
	Name  string  `json:"name"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// ContentDocument is a page as stored in the content index.
type ContentDocument struct {
	Name    string
	Title   string
	Content string
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
