package storage

import (
	"time"

	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/docs"
)

// Snapshot describes one stored catalog.
type Snapshot struct {
	// ID is a UUID assigned on save.
	ID string `json:"id"`

	// CreatedAt is when the snapshot was saved.
	CreatedAt time.Time `json:"created_at"`

	// DocRoot is the documentation directory the pages were read from.
	DocRoot string `json:"doc_root"`

	PageCount      int `json:"page_count"`
	ComponentCount int `json:"component_count"`

	// DocsTimestamp and ComponentsTimestamp are the build times of the collections.
	DocsTimestamp       time.Time `json:"docs_timestamp"`
	ComponentsTimestamp time.Time `json:"components_timestamp"`
}

// Catalog is a snapshot loaded back into collections.
type Catalog struct {
	Snapshot   Snapshot
	Docs       *docs.Collection
	Components *components.Collection
}
