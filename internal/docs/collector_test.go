package docs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
	return root
}

func newTestCollector(t *testing.T, root string) *Collector {
	t.Helper()
	cfg := config.Default().Docs
	cfg.Root = root
	c, err := NewCollector(cfg)
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCollect(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":                          "# Panel Material UI\n\nMaterial components for Panel.",
		"how_to/customize.md":               "# Customize\n\nChange the **theme**.",
		"reference/widgets/Button.md":       "# Button\n\nA clickable button.",
		"reference/layouts/Card.md":         "# Card\n\nA container.",
		"_build/html/index.md":              "# Built copy",
		"how_to/__pycache__/x.md":           "# Cache",
		"reference/.pytest_cache/README.md": "# Pytest cache",
		"notes.txt":                         "not markdown",
	})

	collection, err := newTestCollector(t, root).Collect(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, collection.TotalCount())
	for _, p := range collection.Pages() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"how_to/customize.md",
		"index.md",
		"reference/layouts/Card.md",
		"reference/widgets/Button.md",
	}, names)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, len(collection.Pages()), collection.TotalCount())

	page, err := collection.Get("how_to/customize.md")
	require.NoError(t, err)
	assert.Equal(t, "Customize", page.Title)
	assert.Equal(t, "Change the theme.", page.Description)
	assert.Equal(t, "https://panel-material-ui.holoviz.org/how_to/customize.html", page.URL)
	assert.Equal(t, filepath.Join(root, "how_to", "customize.md"), page.FilePath)
	assert.Equal(t, "# Customize\n\nChange the **theme**.", page.Content)

	assert.Equal(t, root, collection.DocRoot())
	assert.Equal(t, 2025, collection.Timestamp().Year())
}

func TestCollect_SkipsInvalidUTF8(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.md": "# Good\n\nFine.",
		"bad.md":  "# Bad\n\n\xff\xfe",
	})

	collection, err := newTestCollector(t, root).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, collection.TotalCount())
}

func TestCollect_RootErrors(t *testing.T) {
	_, err := newTestCollector(t, filepath.Join(t.TempDir(), "missing")).Collect(context.Background())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("# x"), 0644))
	_, err = newTestCollector(t, file).Collect(context.Background())
	assert.ErrorContains(t, err, "not a directory")
}

func TestCollect_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.md": "# A"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCollector(t, root).Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCollector_BadGlob(t *testing.T) {
	cfg := config.Default().Docs
	cfg.Ignore = []string{"[unclosed"}
	_, err := NewCollector(cfg)
	assert.ErrorContains(t, err, "docs.ignore")
}

func TestSearch_EndToEnd(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md": "# A\n\nAbout A.",
		"b.md": "# B\n\nAbout B and A.",
	})

	collection, err := newTestCollector(t, root).Collect(context.Background())
	require.NoError(t, err)

	hits := collection.Search("A", 10)
	require.Len(t, hits, 2)
	assert.Equal(t, "a.md", hits[0].Item.Name)
	assert.Equal(t, "b.md", hits[1].Item.Name)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)

	assert.Equal(t, hits, collection.Search("A", 10))
	assert.Empty(t, collection.Search("", 10))
	assert.Empty(t, collection.Search("   ", 10))
}

func TestSaveLoad(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md":           "# A\n\nAbout A.",
		"reference/b.md": "# B\n\nAbout B.",
	})
	collection, err := newTestCollector(t, root).Collect(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, collection))
	assert.Contains(t, buf.String(), `"total_count": 2`)

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, collection.Pages(), loaded.Pages())
	assert.Equal(t, collection.DocRoot(), loaded.DocRoot())
	assert.True(t, collection.Timestamp().Equal(loaded.Timestamp()))
}
