package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/spf13/cobra"
)

// newListCmd creates the 'list' command for listing documentation pages and components.
func newListCmd(opts *options) *cobra.Command {
	var jsonOutput bool
	var summary bool
	var dbPath string

	cmd := &cobra.Command{
		Use:     "list docs|components|snapshots",
		Aliases: []string{"ls"},
		Short:   "List documentation pages, components or stored snapshots",
		Long: `Build the catalog and print every documentation page or component.

With --summary only the page count per category (or the component count per
module) is printed. "snapshots" lists the snapshots in the snapshot database
instead, newest first.`,
		Example: `  pmui-mcp list docs
  pmui-mcp ls components
  pmui-mcp list components --summary
  pmui-mcp list docs --json
  pmui-mcp list snapshots`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"docs", "components", "snapshots"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "snapshots" {
				return runListSnapshots(cmd, dbPath, jsonOutput)
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			cat, err := catalog.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cat.Close()
			return runList(cmd.OutOrStdout(), cat, args[0], jsonOutput, summary)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Only print counts per category or module")
	cmd.Flags().StringVar(&dbPath, "db", "", "Snapshot database (default: ~/.pmui-mcp/snapshots.db)")

	return cmd
}

// runList prints one collection of cat.
func runList(w io.Writer, cat *catalog.Catalog, kind string, jsonOutput, summary bool) error {
	switch {
	case kind == "docs" && summary:
		return printCounts(w, "Documentation categories", cat.Docs.Categories(), jsonOutput)
	case kind == "components" && summary:
		return printCounts(w, "Component modules", cat.Components.Modules(), jsonOutput)
	case kind == "docs" && jsonOutput:
		return writeJSON(w, cat.Docs.Summaries())
	case kind == "components" && jsonOutput:
		return writeJSON(w, cat.Components.Summaries())
	}

	if kind == "docs" {
		pages := cat.Docs.Summaries()
		fmt.Fprintf(w, "Documentation pages (%d):\n\n", len(pages))
		for _, p := range pages {
			fmt.Fprintf(w, "  %s\n", p.Name)
			fmt.Fprintf(w, "    Title: %s\n", p.Title)
			if p.Description != "" {
				fmt.Fprintf(w, "    About: %s\n", p.Description)
			}
			fmt.Fprintf(w, "    URL:   %s\n\n", p.URL)
		}
		return nil
	}

	comps := cat.Components.Summaries()
	fmt.Fprintf(w, "Components (%d):\n\n", len(comps))
	for _, c := range comps {
		fmt.Fprintf(w, "  %s\n", c.Name)
		fmt.Fprintf(w, "    Module: %s\n", c.ModulePath)
		if c.Description != "" {
			fmt.Fprintf(w, "    About:  %s\n", c.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// runListSnapshots prints the stored snapshots.
func runListSnapshots(cmd *cobra.Command, dbPath string, jsonOutput bool) error {
	store, err := openStorage(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.ListSnapshots(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, snaps)
	}
	if len(snaps) == 0 {
		fmt.Fprintf(w, "No snapshots in %s.\n", store.Path())
		fmt.Fprintln(w, "Run 'pmui-mcp export --format sqlite' to store one.")
		return nil
	}

	fmt.Fprintf(w, "Snapshots (%d):\n\n", len(snaps))
	for _, s := range snaps {
		fmt.Fprintf(w, "  %s\n", s.ID)
		fmt.Fprintf(w, "    Created:    %s\n", s.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "    Docs root:  %s\n", s.DocRoot)
		fmt.Fprintf(w, "    Contents:   %d pages, %d components\n\n", s.PageCount, s.ComponentCount)
	}
	return nil
}

func printCounts(w io.Writer, title string, counts map[string]int, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, counts)
	}

	keys := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s (%d entries):\n\n", title, total)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-24s %d\n", k, counts[k])
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
