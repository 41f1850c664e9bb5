package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/rs/zerolog/log"
)

// ContentIndex is a full-text index over page content. It is filled once at
// startup and only searched afterwards.
type ContentIndex struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewContentIndex creates an empty in-memory Bleve index.
func NewContentIndex() (*ContentIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &ContentIndex{bleveIndex: index}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	pageMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Store = true
	pageMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Content is searchable but not stored; callers fetch it from the collection.
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Store = false
	pageMapping.AddFieldMappingsAt("content", contentFieldMapping)

	// Name is kept verbatim for retrieval.
	nameFieldMapping := bleve.NewKeywordFieldMapping()
	nameFieldMapping.IncludeInAll = false
	pageMapping.AddFieldMappingsAt("name", nameFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = pageMapping

	return indexMapping
}

// Index adds pages to the index in a single batch. The page name is the document ID.
func (i *ContentIndex) Index(docs []ContentDocument) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for _, d := range docs {
		doc := map[string]interface{}{
			"name":    d.Name,
			"title":   d.Title,
			"content": d.Content,
		}
		if err := batch.Index(d.Name, doc); err != nil {
			log.Warn().Err(err).Str("page", d.Name).Msg("failed to index page")
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index pages: %w", err)
	}
	return nil
}

// Count returns the total number of indexed pages.
func (i *ContentIndex) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return docCount, nil
}

// Close closes the index and releases resources.
func (i *ContentIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}
	return nil
}

// buildMatchQuery matches the query text against title and content.
func buildMatchQuery(text string) query.Query {
	title := bleve.NewMatchQuery(text)
	title.SetField("title")
	title.SetBoost(2)

	content := bleve.NewMatchQuery(text)
	content.SetField("content")

	return bleve.NewDisjunctionQuery(title, content)
}
