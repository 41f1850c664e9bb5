package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocs_GetPages(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), false)
	res := callTool(t, sub, "get_pages", nil)

	var pages []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &pages))
	require.Len(t, pages, 4)
	assert.Equal(t, "explanation/best_practices.md", pages[0]["name"])
	assert.NotContains(t, pages[0], "content")
}

func TestDocs_GetPage(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), false)

	res := callTool(t, sub, "get_page", map[string]interface{}{"name": "index.md"})
	require.False(t, res.IsError)
	assert.Equal(t, "# Panel Material UI\n\nMaterial Design components for Panel.\n", resultText(t, res))

	res = callTool(t, sub, "get_page", map[string]interface{}{"name": "reference"})
	require.True(t, res.IsError)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	assert.Equal(t, "Page 'reference' not found", payload["error"])
	assert.Len(t, payload["suggestions"], 2)
}

func TestDocs_GetReferencePage(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), false)

	res := callTool(t, sub, "get_reference_page", map[string]interface{}{"component": "Button"})
	require.False(t, res.IsError)
	assert.Equal(t, "# Button\n\nThe Button widget triggers events when clicked.\n", resultText(t, res))

	res = callTool(t, sub, "get_reference_page", map[string]interface{}{"component": "Slider"})
	assert.True(t, res.IsError)
}

func TestDocs_Search(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), false)

	res := callTool(t, sub, "search", map[string]interface{}{"query": "card layout"})
	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "reference/layouts/Card.md", hits[0]["name"])
	assert.Contains(t, hits[0], "relevance_score")

	res = callTool(t, sub, "search", map[string]interface{}{"query": ""})
	assert.Equal(t, "[]", resultText(t, res))
}

func TestDocs_SearchContent(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), false)

	res := callTool(t, sub, "search_content", map[string]interface{}{"query": "shell", "limit": float64(5)})
	require.False(t, res.IsError)
	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "explanation/best_practices.md", hits[0]["name"])
}

func TestDocs_SearchContentDisabled(t *testing.T) {
	full := testCatalog(t)
	cat := catalog.New(full.Docs, full.Components, nil, config.Default())
	sub := NewDocsServer(cat, false)

	res := callTool(t, sub, "search_content", map[string]interface{}{"query": "shell"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "disabled")
}

func TestDocs_BestPracticesResource(t *testing.T) {
	sub := NewDocsServer(testCatalog(t), true)
	require.Len(t, sub.Resources, 1)

	text, err := sub.Resources[0].Read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "# Best Practices")

	findTool(t, sub, "search_pages")
}
