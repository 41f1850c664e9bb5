package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/rs/zerolog/log"
)

// Collector walks a documentation root for markdown pages.
type Collector struct {
	root    string
	baseURL string
	include []glob.Glob
	ignore  []glob.Glob
	now     func() time.Time
}

// NewCollector compiles the include and ignore globs of cfg. Globs are
// matched against slash-separated paths relative to the root; "*" stays
// within one path segment and "**" crosses segments.
func NewCollector(cfg config.DocsConfig) (*Collector, error) {
	include, err := compileGlobs(cfg.Include)
	if err != nil {
		return nil, fmt.Errorf("invalid docs.include: %w", err)
	}
	ignore, err := compileGlobs(cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid docs.ignore: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Collector{
		root:    cfg.Root,
		baseURL: baseURL,
		include: include,
		ignore:  ignore,
		now:     time.Now,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Collect walks the root and returns the page collection. An inaccessible
// root is an error; an unreadable file is logged and skipped.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	root, err := filepath.Abs(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doc root %s: %w", c.root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("doc root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("doc root %s is not a directory", root)
	}

	var pages []Page
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			log.Warn().Err(walkErr).Str("path", p).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchAny(c.ignore, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(c.include, rel) {
			return nil
		}

		page, err := c.readPage(p, rel)
		if err != nil {
			log.Warn().Err(err).Str("path", rel).Msg("skipping documentation page")
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to walk doc root %s: %w", root, err)
	}

	collection := NewCollection(root, pages, c.now())
	log.Info().Str("root", root).Int("pages", collection.TotalCount()).Msg("collected documentation")
	return collection, nil
}

func (c *Collector) readPage(abs, rel string) (Page, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return Page{}, err
	}
	if !utf8.Valid(data) {
		return Page{}, fmt.Errorf("not valid UTF-8")
	}

	content := string(data)
	title, description := ExtractTitleAndDescription(content)

	return Page{
		PageSummary: PageSummary{
			Name:        rel,
			Title:       title,
			Description: description,
			URL:         c.pageURL(rel),
			FilePath:    abs,
		},
		Content: content,
	}, nil
}

// pageURL maps how_to/x.md to <base>how_to/x.html.
func (c *Collector) pageURL(rel string) string {
	return c.baseURL + strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}
