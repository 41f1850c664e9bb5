package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/spf13/cobra"
)

var searchKinds = []string{"docs", "components", "content"}

// newSearchCmd creates the 'search' command, the terminal counterpart of the
// docs_search, components_search and docs_search_content tools.
func newSearchCmd(opts *options) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search docs|components|content <query>",
		Short: "Search documentation pages or components",
		Long: `Rank documentation pages or components against a query, the same way the
MCP search tools do. "content" queries the full-text index over page bodies
and needs search.content_index enabled.`,
		Example: `  pmui-mcp search components date picker
  pmui-mcp search docs "getting started" --limit 3
  pmui-mcp search content sizing_mode --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if !validKind(kind) {
				return fmt.Errorf("invalid search kind %q (want %s)", kind, strings.Join(searchKinds, ", "))
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if kind == "content" {
				cfg.Search.ContentIndex = true
			}
			cat, err := catalog.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cat.Close()
			return runSearch(cmd.OutOrStdout(), cat, kind, strings.Join(args[1:], " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default: search.default_limit)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func validKind(kind string) bool {
	for _, k := range searchKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// runSearch prints the ranked results of one search.
func runSearch(w io.Writer, cat *catalog.Catalog, kind, query string, limit int, jsonOutput bool) error {
	switch kind {
	case "docs":
		hits := docs.Scored(cat.SearchDocs(query, limit))
		if jsonOutput {
			return writeJSON(w, hits)
		}
		fmt.Fprintf(w, "Found %d pages for %q:\n\n", len(hits), query)
		for _, h := range hits {
			fmt.Fprintf(w, "  %4d  %s\n        %s\n", h.RelevanceScore, h.Name, h.Title)
		}

	case "components":
		hits := cat.SearchComponents(query, limit)
		if jsonOutput {
			return writeJSON(w, hits)
		}
		fmt.Fprintf(w, "Found %d components for %q:\n\n", len(hits), query)
		for _, h := range hits {
			fmt.Fprintf(w, "  %4d  %s\n        %s\n", h.RelevanceScore, h.Name, h.ModulePath)
		}

	case "content":
		hits, err := cat.SearchContent(query, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(w, hits)
		}
		fmt.Fprintf(w, "Found %d pages for %q:\n\n", len(hits), query)
		for _, h := range hits {
			fmt.Fprintf(w, "  %6.3f  %s\n          %s\n", h.Score, h.Name, h.Title)
		}
	}
	return nil
}
