package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/pmui/pmui-mcp/internal/search"
)

const bestPracticesPage = "explanation/best_practices.md"

const docsInstructions = `This server provides tools and resources for the Panel Material UI documentation.

The documentation follows the Diataxis framework for technical documentation, which consists
of four main categories: Tutorials, How-to Guides, Reference Guides, and Explanations.

Available tools:
- get_pages: Get a list of all available documentation pages
- get_page: Get the content of a specific documentation page
- get_reference_page: Get the reference page of a component
- search: Search for documentation pages by name, title, or description
- search_content: Search the full text of all documentation pages`

// NewDocsServer exposes the documentation collection.
func NewDocsServer(cat *catalog.Catalog, aliases bool) *SubServer {
	h := &docHandlers{cat: cat}

	tools := []Tool{
		{
			Name: "get_pages",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`[DOCUMENTATION] Get a list of all available documentation pages.

Returns for every page:
- name: the relative path to the source file (unique key)
- title: the title extracted from the page content
- description: a short description from the first paragraph
- url: the URL of the deployed page`),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getPages,
		},
		{
			Name: "get_page",
			Options: []mcp.ToolOption{
				mcp.WithDescription("[DOCUMENTATION] Get the markdown content of a documentation page by name."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description(`Relative path of the page, e.g. "index.md" or "how_to/customize.md"`)),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getPage,
		},
		{
			Name: "get_reference_page",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`[DOCUMENTATION] Get the markdown reference page of a component.

WHEN TO USE: Before using a component, to read its reference guide with examples.`),
				mcp.WithString("component",
					mcp.Required(),
					mcp.Description(`Component name, e.g. "Button"`)),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getReferencePage,
		},
		{
			Name: "search",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`[DOCUMENTATION] Search documentation pages by name, title, or description.

Returns: matching page summaries with relevance_score, best first.`),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search terms")),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of results (default: 10)")),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.search,
		},
		{
			Name: "search_content",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`[DOCUMENTATION] Full-text search over the content of all documentation pages.

WHEN TO USE: When the title and description search finds nothing, e.g. for a parameter name or code snippet.

Returns: page names and titles with a relevance score.`),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search terms")),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of results (default: 10)")),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.searchContent,
		},
	}

	if aliases {
		tools = append(tools, aliasTools(tools, map[string]string{"search": "search_pages"})...)
	}

	return &SubServer{
		Name:         "Panel Material UI Documentation",
		Prefix:       "docs",
		Instructions: docsInstructions,
		Tools:        tools,
		Resources: []Resource{
			{
				URI:         "docs://explanation/best_practices",
				Name:        "Best Practices",
				Description: "Best practices for building Panel applications with Panel Material UI components.",
				MIMEType:    "text/markdown",
				Read: func(ctx context.Context) (string, error) {
					page, err := cat.Docs.Get(bestPracticesPage)
					if err != nil {
						return "", err
					}
					return page.Content, nil
				},
			},
		},
	}
}

type docHandlers struct {
	cat *catalog.Catalog
}

func (h *docHandlers) getPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return marshalToolResponse(h.cat.Docs.Summaries())
}

func (h *docHandlers) getPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := h.cat.Docs.Get(name)
	if err != nil {
		return lookupError(err)
	}
	return mcp.NewToolResultText(page.Content), nil
}

func (h *docHandlers) getReferencePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component, err := request.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := h.cat.Docs.ReferencePage(component)
	if err != nil {
		return lookupError(err)
	}
	return mcp.NewToolResultText(page.Content), nil
}

func (h *docHandlers) search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, limit, res := queryArgs(request)
	if res != nil {
		return res, nil
	}
	return marshalToolResponse(docs.Scored(h.cat.SearchDocs(query, limit)))
}

func (h *docHandlers) searchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, limit, res := queryArgs(request)
	if res != nil {
		return res, nil
	}
	hits, err := h.cat.SearchContent(query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if hits == nil {
		hits = []search.ContentHit{}
	}
	return marshalToolResponse(hits)
}
