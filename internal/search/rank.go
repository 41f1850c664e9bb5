package search

import (
	"regexp"
	"sort"
	"strings"
)

// Score weights. Exact is a full-query substring, Word a whole-word token
// match and Partial a token found inside a longer word.
const (
	exactTitle = 100
	exactName  = 90
	exactBody  = 80

	wordTitle = 50
	wordName  = 40
	wordBody  = 30

	partialTitle = 20
	partialName  = 15
	partialBody  = 10

	multiTokenBonus = 25

	orderTitle = 35
	orderName  = 30
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases s and splits it into word tokens.
func Tokenize(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

type rankedField struct {
	text  string
	words []string
	set   map[string]struct{}
}

func newRankedField(s string) rankedField {
	text := strings.ToLower(s)
	words := Tokenize(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return rankedField{text: text, words: words, set: set}
}

func (f rankedField) hasWord(w string) bool {
	_, ok := f.set[w]
	return ok
}

// inOrder reports whether a occurs as a word before some later occurrence of b.
func (f rankedField) inOrder(a, b string) bool {
	first := -1
	for i, w := range f.words {
		if first < 0 && w == a {
			first = i
			continue
		}
		if first >= 0 && w == b {
			return true
		}
	}
	return false
}

type parsedQuery struct {
	text     string
	tokens   []string // query order, duplicates kept
	distinct []string
}

func parseQuery(q string) (parsedQuery, bool) {
	text := strings.ToLower(strings.TrimSpace(q))
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return parsedQuery{}, false
	}

	seen := make(map[string]struct{}, len(tokens))
	distinct := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		distinct = append(distinct, tok)
	}
	return parsedQuery{text: text, tokens: tokens, distinct: distinct}, true
}

func score(q parsedQuery, fields Fields) int {
	title := newRankedField(fields.Title)
	name := newRankedField(fields.Name)
	body := newRankedField(fields.Body)

	total := 0

	if strings.Contains(title.text, q.text) {
		total += exactTitle
	}
	if strings.Contains(name.text, q.text) {
		total += exactName
	}
	if strings.Contains(body.text, q.text) {
		total += exactBody
	}

	matched := 0
	for _, tok := range q.distinct {
		hit := false
		for _, w := range []struct {
			field         rankedField
			word, partial int
		}{
			{title, wordTitle, partialTitle},
			{name, wordName, partialName},
			{body, wordBody, partialBody},
		} {
			switch {
			case w.field.hasWord(tok):
				total += w.word
				hit = true
			case strings.Contains(w.field.text, tok):
				total += w.partial
				hit = true
			}
		}
		if hit {
			matched++
		}
	}
	if matched > 1 {
		total += matched * multiTokenBonus
	}

	for i := 0; i+1 < len(q.tokens); i++ {
		a, b := q.tokens[i], q.tokens[i+1]
		if a == b {
			continue
		}
		switch {
		case title.inOrder(a, b):
			total += orderTitle
		case name.inOrder(a, b):
			total += orderName
		}
	}

	return total
}

// Score returns the relevance of fields for query, 0 meaning no match.
func Score(fields Fields, query string) int {
	q, ok := parseQuery(query)
	if !ok {
		return 0
	}
	return score(q, fields)
}

// Rank scores every item against query and returns the non-zero hits in
// descending score order, ties kept in collection order. A blank query
// yields no hits.
func Rank[T Document](items []T, query string, limit int) []Hit[T] {
	q, ok := parseQuery(query)
	if !ok {
		return nil
	}

	var hits []Hit[T]
	for _, item := range items {
		if s := score(q, item.SearchFields()); s > 0 {
			hits = append(hits, Hit[T]{Item: item, Score: s})
		}
	}
	return sortAndLimit(hits, limit)
}

// RankSimple is the single-term scorer: exact title 100, title substring 80,
// name substring 60, body substring 40. There is no tokenization.
//
// Deprecated: use Rank. Kept for the "simple" component ranking setting.
func RankSimple[T Document](items []T, query string, limit int) []Hit[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []Hit[T]
	for _, item := range items {
		f := item.SearchFields()
		s := 0
		switch {
		case strings.ToLower(f.Title) == q:
			s = 100
		case strings.Contains(strings.ToLower(f.Title), q):
			s = 80
		case strings.Contains(strings.ToLower(f.Name), q):
			s = 60
		case strings.Contains(strings.ToLower(f.Body), q):
			s = 40
		}
		if s > 0 {
			hits = append(hits, Hit[T]{Item: item, Score: s})
		}
	}
	return sortAndLimit(hits, limit)
}

func sortAndLimit[T any](hits []Hit[T], limit int) []Hit[T] {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if limit = normalizeLimit(limit); len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
