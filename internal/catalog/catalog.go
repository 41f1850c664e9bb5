// Package catalog assembles the documentation and component collections the
// server answers from. A Catalog is built once at startup and only read after.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/pmui/pmui-mcp/internal/search"
	"github.com/pmui/pmui-mcp/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrContentIndexDisabled is returned by SearchContent when search.content_index is off.
var ErrContentIndexDisabled = errors.New("full-content search is disabled (search.content_index is false)")

// Catalog holds the immutable collections.
type Catalog struct {
	Docs       *docs.Collection
	Components *components.Collection

	// Content is nil when the content index is disabled.
	Content *search.ContentIndex

	defaultLimit int
	ranking      string
}

// Build collects docs and components concurrently and waits for both.
func Build(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	start := time.Now()

	docCollector, err := docs.NewCollector(cfg.Docs)
	if err != nil {
		return nil, err
	}
	registry, err := components.OpenRegistry(cfg.Components.Manifest)
	if err != nil {
		return nil, err
	}
	compCollector := components.NewCollector(registry, cfg.Components)

	cat := newCatalog(cfg)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := docCollector.Collect(gctx)
		if err != nil {
			return fmt.Errorf("failed to collect documentation: %w", err)
		}
		cat.Docs = d
		if !cfg.Search.ContentIndex {
			return nil
		}
		idx, err := buildContentIndex(d)
		if err != nil {
			return err
		}
		cat.Content = idx
		return nil
	})

	g.Go(func() error {
		c, err := compCollector.Collect(gctx)
		if err != nil {
			return fmt.Errorf("failed to collect components: %w", err)
		}
		cat.Components = c
		return nil
	})

	if err := g.Wait(); err != nil {
		cat.Close()
		return nil, err
	}

	log.Info().
		Int("pages", cat.Docs.TotalCount()).
		Int("components", cat.Components.TotalCount()).
		Dur("elapsed", time.Since(start)).
		Msg("catalog ready")
	return cat, nil
}

// FromSnapshot loads a stored catalog. An empty id selects the latest snapshot.
func FromSnapshot(ctx context.Context, store storage.Storage, id string, cfg *config.Config) (*Catalog, error) {
	var (
		stored *storage.Catalog
		err    error
	)
	if id == "" {
		stored, err = store.LatestSnapshot(ctx)
	} else {
		stored, err = store.LoadSnapshot(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	cat := newCatalog(cfg)
	cat.Docs = stored.Docs
	cat.Components = stored.Components
	if cfg.Search.ContentIndex {
		if cat.Content, err = buildContentIndex(cat.Docs); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("snapshot", stored.Snapshot.ID).
		Time("created_at", stored.Snapshot.CreatedAt).
		Int("pages", cat.Docs.TotalCount()).
		Int("components", cat.Components.TotalCount()).
		Msg("catalog loaded from snapshot")
	return cat, nil
}

// New wraps existing collections. idx may be nil.
func New(d *docs.Collection, c *components.Collection, idx *search.ContentIndex, cfg *config.Config) *Catalog {
	cat := newCatalog(cfg)
	cat.Docs, cat.Components, cat.Content = d, c, idx
	return cat
}

func newCatalog(cfg *config.Config) *Catalog {
	return &Catalog{defaultLimit: cfg.Search.DefaultLimit, ranking: cfg.Search.ComponentRanking}
}

func buildContentIndex(d *docs.Collection) (*search.ContentIndex, error) {
	idx, err := search.NewContentIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to create content index: %w", err)
	}

	pages := d.Pages()
	batch := make([]search.ContentDocument, len(pages))
	for i, p := range pages {
		batch[i] = search.ContentDocument{Name: p.Name, Title: p.Title, Content: p.Content}
	}
	if err := idx.Index(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to index page content: %w", err)
	}
	return idx, nil
}

// Limit applies the configured default to a non-positive limit.
func (c *Catalog) Limit(limit int) int {
	if limit > 0 {
		return limit
	}
	if c.defaultLimit > 0 {
		return c.defaultLimit
	}
	return search.DefaultLimit
}

// SearchDocs ranks documentation pages.
func (c *Catalog) SearchDocs(query string, limit int) []search.Hit[docs.Page] {
	return c.Docs.Search(query, c.Limit(limit))
}

// SearchComponents ranks components with the configured algorithm.
func (c *Catalog) SearchComponents(query string, limit int) []components.ScoredSummary {
	if c.ranking == config.RankingSimple {
		return c.Components.SearchSimple(query, c.Limit(limit))
	}
	return c.Components.Search(query, c.Limit(limit))
}

// SearchContent queries the full-content index.
func (c *Catalog) SearchContent(query string, limit int) ([]search.ContentHit, error) {
	if c.Content == nil {
		return nil, ErrContentIndexDisabled
	}
	return c.Content.Search(query, c.Limit(limit))
}

// Close releases the content index.
func (c *Catalog) Close() error {
	if c.Content == nil {
		return nil
	}
	return c.Content.Close()
}
