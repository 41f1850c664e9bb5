package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

const (
	formatJSON   = "json"
	formatJSONL  = "jsonl"
	formatSQLite = "sqlite"

	kindDocs       = "docs"
	kindComponents = "components"
	kindAll        = "all"
)

// IndexEntry is one line of a JSONL export.
type IndexEntry struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	ModulePath  string `json:"module_path,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// newExportCmd creates the export command.
func newExportCmd(opts *options) *cobra.Command {
	var (
		format    string
		output    string
		kind      string
		retention time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog for offline search or as a snapshot",
		Long: `Build the catalog and write it out.

  json    the full collections, readable by the docs and components loaders
  jsonl   one page or component per line for grep/jq
  sqlite  a snapshot in the snapshot database, servable with 'serve --snapshot'

Default output: ~/.pmui-mcp-index.jsonl (json: .json, sqlite: ~/.pmui-mcp/snapshots.db)`,
		Example: `  # Export to default location
  pmui-mcp export

  # Components only, as JSON
  pmui-mcp export --format json --kind components --output ./components.json

  # Store a snapshot and drop snapshots older than a week
  pmui-mcp export --format sqlite --retention 168h

Grep usage examples:
  # Find slider components
  grep -i '"slider' ~/.pmui-mcp-index.jsonl | jq -r '.module_path'

  # Count pages per kind
  jq -r '.kind' ~/.pmui-mcp-index.jsonl | sort | uniq -c`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateExport(format, kind); err != nil {
				return err
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

			w := cmd.OutOrStdout()
			if format == formatSQLite {
				return exportSnapshot(cmd, w, cat, output, retention)
			}
			return runExport(w, cat, format, kind, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSONL, "Output format: json, jsonl or sqlite")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path")
	cmd.Flags().StringVar(&kind, "kind", kindAll, "What to export: docs, components or all (json and jsonl only)")
	cmd.Flags().DurationVar(&retention, "retention", 0, "Delete snapshots older than this after saving (sqlite only)")

	return cmd
}

func validateExport(format, kind string) error {
	switch format {
	case formatJSON, formatJSONL, formatSQLite:
	default:
		return fmt.Errorf("invalid format %q (want json, jsonl or sqlite)", format)
	}
	switch kind {
	case kindDocs, kindComponents, kindAll:
	default:
		return fmt.Errorf("invalid kind %q (want docs, components or all)", kind)
	}
	return nil
}

// runExport writes a json or jsonl file under an exclusive lock.
func runExport(w io.Writer, cat *catalog.Catalog, format, kind, output string) error {
	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		output = filepath.Join(home, ".pmui-mcp-index."+format)
	}

	// Acquire file lock to prevent concurrent writes
	lockFile, err := acquireFileLock(output)
	if err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	defer releaseFileLock(lockFile)

	var d *docs.Collection
	var c *components.Collection
	if kind != kindComponents {
		d = cat.Docs
	}
	if kind != kindDocs {
		c = cat.Components
	}

	n, err := writeIndex(d, c, output, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Exported %d entries to %s\n", n, output)
	return nil
}

// writeIndex writes the collections to path and returns the number of
// entries written. Nil collections are skipped.
func writeIndex(d *docs.Collection, c *components.Collection, path, format string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create index file: %w", err)
	}
	defer file.Close()

	count := 0
	if d != nil {
		count += d.TotalCount()
	}
	if c != nil {
		count += c.TotalCount()
	}

	if format == formatJSON {
		switch {
		case c == nil:
			err = docs.Save(file, d)
		case d == nil:
			err = components.Save(file, c)
		default:
			err = writeJSON(file, struct {
				Docs       *docs.Collection       `json:"docs"`
				Components *components.Collection `json:"components"`
			}{d, c})
		}
		if err != nil {
			return 0, fmt.Errorf("failed to encode index: %w", err)
		}
		return count, nil
	}

	// JSONL format (one entry per line)
	encoder := json.NewEncoder(file)
	if d != nil {
		for _, p := range d.Summaries() {
			entry := IndexEntry{Kind: "page", Name: p.Name, Title: p.Title, Description: p.Description, URL: p.URL}
			if err := encoder.Encode(entry); err != nil {
				return 0, fmt.Errorf("failed to encode page: %w", err)
			}
		}
	}
	if c != nil {
		for _, s := range c.Summaries() {
			entry := IndexEntry{Kind: "component", Name: s.Name, ModulePath: s.ModulePath, Description: s.Description}
			if err := encoder.Encode(entry); err != nil {
				return 0, fmt.Errorf("failed to encode component: %w", err)
			}
		}
	}
	return count, nil
}

// exportSnapshot stores the catalog in the snapshot database.
func exportSnapshot(cmd *cobra.Command, w io.Writer, cat *catalog.Catalog, output string, retention time.Duration) error {
	store, err := openStorage(output)
	if err != nil {
		return err
	}
	defer store.Close()

	lockFile, err := acquireFileLock(store.Path())
	if err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	defer releaseFileLock(lockFile)

	snap, err := store.SaveSnapshot(cmd.Context(), cat.Docs, cat.Components)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Saved snapshot %s (%d pages, %d components) to %s\n",
		snap.ID, snap.PageCount, snap.ComponentCount, store.Path())

	if retention > 0 {
		removed, err := store.Cleanup(cmd.Context(), retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Removed %d snapshots older than %s\n", removed, retention)
	}
	return nil
}

// acquireFileLock acquires an exclusive lock next to the output file.
func acquireFileLock(path string) (*os.File, error) {
	lockPath := path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	// Try to acquire exclusive lock (non-blocking)
	err = unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("failed to acquire lock (another export in progress?): %w", err)
	}

	return lockFile, nil
}

// releaseFileLock releases the file lock and removes the lock file.
func releaseFileLock(lockFile *os.File) error {
	if lockFile == nil {
		return nil
	}

	lockPath := lockFile.Name()
	unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
	lockFile.Close()

	return os.Remove(lockPath)
}
