package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	blevesearch "github.com/blevesearch/bleve/v2/search"
)

const (
	maxSuggestions = 5
	maxAvailable   = 10
)

// NotFoundError is returned by Find when no name matches. It carries either
// suggestions close to the requested name or a sample of available names.
type NotFoundError struct {
	Kind        string // "component" or "page"
	Name        string
	Suggestions []string
	Available   []string
	Remaining   int // available names not listed
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s '%s' not found.", capitalize(e.Kind), e.Name)
	if len(e.Suggestions) > 0 {
		b.WriteString(" Did you mean one of these?")
		for _, s := range e.Suggestions {
			b.WriteString("\n- " + s)
		}
		return b.String()
	}
	fmt.Fprintf(&b, " Available %ss:", e.Kind)
	for _, s := range e.Available {
		b.WriteString("\n- " + s)
	}
	if e.Remaining > 0 {
		fmt.Fprintf(&b, "\n... and %d more", e.Remaining)
	}
	return b.String()
}

// MarshalJSON renders the structured not-found payload returned to MCP clients.
func (e *NotFoundError) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"error": fmt.Sprintf("%s '%s' not found", capitalize(e.Kind), e.Name),
	}
	if len(e.Suggestions) > 0 {
		payload["suggestions"] = e.Suggestions
		payload["message"] = fmt.Sprintf("Did you mean one of these %ss?", e.Kind)
	} else {
		available := e.Available
		if available == nil {
			available = []string{}
		}
		payload["available_"+e.Kind+"s"] = available
		payload["message"] = fmt.Sprintf("Here are some available %ss", e.Kind)
		if e.Remaining > 0 {
			payload["more"] = e.Remaining
		}
	}
	return json.Marshal(payload)
}

// Find returns the index of the name equal to query ignoring case. When
// there is none it returns a *NotFoundError populated with up to five
// suggestions (substring matches first, then close spellings) or, failing
// that, up to ten available names.
func Find(kind string, names []string, query string) (int, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, n := range names {
		if strings.ToLower(n) == q {
			return i, nil
		}
	}

	nf := &NotFoundError{Kind: kind, Name: query}
	if q != "" {
		nf.Suggestions = Suggest(names, q, maxSuggestions)
	}
	if len(nf.Suggestions) == 0 {
		n := len(names)
		if n > maxAvailable {
			n = maxAvailable
		}
		nf.Available = append(make([]string, 0, n), names[:n]...)
		nf.Remaining = len(names) - n
	}
	return -1, nf
}

// Suggest returns up to n names related to query: names containing it
// (case-insensitive) in collection order, then names within a small edit
// distance ordered by distance.
func Suggest(names []string, query string, n int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || n <= 0 {
		return nil
	}

	var out []string
	taken := make(map[int]bool)
	for i, name := range names {
		if len(out) == n {
			return out
		}
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
			taken[i] = true
		}
	}

	type candidate struct {
		idx, dist int
	}
	var fuzzy []candidate
	limit := maxEdits(q)
	for i, name := range names {
		if taken[i] {
			continue
		}
		if d := blevesearch.LevenshteinDistance(q, strings.ToLower(name)); d <= limit {
			fuzzy = append(fuzzy, candidate{idx: i, dist: d})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })
	for _, c := range fuzzy {
		if len(out) == n {
			break
		}
		out = append(out, names[c.idx])
	}
	return out
}

func maxEdits(q string) int {
	switch l := len([]rune(q)); {
	case l <= 4:
		return 1
	case l <= 8:
		return 2
	default:
		return 3
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
