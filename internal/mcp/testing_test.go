package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/pmui/pmui-mcp/internal/search"
	"github.com/stretchr/testify/require"
)

func testPage(name, content string) docs.Page {
	title, description := docs.ExtractTitleAndDescription(content)
	return docs.Page{
		PageSummary: docs.PageSummary{
			Name:        name,
			Title:       title,
			Description: description,
			URL:         "https://panel-material-ui.holoviz.org/" + name[:len(name)-3] + ".html",
		},
		Content: content,
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	d := docs.NewCollection("/doc", []docs.Page{
		testPage("index.md", "# Panel Material UI\n\nMaterial Design components for Panel.\n"),
		testPage("reference/widgets/Button.md", "# Button\n\nThe Button widget triggers events when clicked.\n"),
		testPage("reference/layouts/Card.md", "# Card\n\nA Card layout with a collapsible header.\n"),
		testPage("explanation/best_practices.md", "# Best Practices\n\nUse pmui.Page as the application shell.\n"),
	}, ts)

	reg, err := components.DefaultRegistry()
	require.NoError(t, err)
	c, err := components.NewCollector(reg, config.Default().Components).Collect(context.Background())
	require.NoError(t, err)

	idx, err := search.NewContentIndex()
	require.NoError(t, err)
	var batch []search.ContentDocument
	for _, p := range d.Pages() {
		batch = append(batch, search.ContentDocument{Name: p.Name, Title: p.Title, Content: p.Content})
	}
	require.NoError(t, idx.Index(batch))

	cat := catalog.New(d, c, idx, config.Default())
	t.Cleanup(func() { cat.Close() })
	return cat
}

func findTool(t *testing.T, sub *SubServer, name string) Tool {
	t.Helper()
	for _, tool := range sub.Tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found in %s", name, sub.Prefix)
	return Tool{}
}

func callTool(t *testing.T, sub *SubServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := findTool(t, sub, name).Handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
