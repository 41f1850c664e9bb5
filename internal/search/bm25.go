package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// Search runs a BM25-scored match query over page titles and content.
// A blank query returns no hits.
func (i *ContentIndex) Search(text string, limit int) ([]ContentHit, error) {
	if strings.TrimSpace(text) == "" {
		return []ContentHit{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildMatchQuery(text), normalizeLimit(limit), 0, false)
	searchRequest.Fields = []string{"name", "title"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve search results to ContentHit values.
func convertBleveResults(results *bleve.SearchResult) []ContentHit {
	hits := make([]ContentHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		title, _ := hit.Fields["title"].(string)
		hits = append(hits, ContentHit{
			Name:  hit.ID,
			Title: title,
			Score: hit.Score,
		})
	}
	return hits
}
