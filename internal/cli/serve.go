package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/mcp"
	"github.com/pmui/pmui-mcp/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// latestSnapshot is the --snapshot value that selects the newest snapshot.
const latestSnapshot = "latest"

// newServeCmd creates the 'serve' command for running the MCP server.
//
// The composed server exposes the components_* and docs_* tools, the template
// and best-practice resources and the learn prompt.
func newServeCmd(opts *options) *cobra.Command {
	var (
		transport string
		addr      string
		snapshot  string
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio or streamable HTTP transport)",
		Long: `Start the Panel Material UI MCP server.

The documentation and component catalogs are built before the transport
starts. With --snapshot the catalog is read from the newest stored snapshot
instead (see 'pmui-mcp export --format sqlite'); --snapshot=<id> selects one
by id. The id must be joined with '=': a bare --snapshot takes no value.

Tools:
  • components_get_all, components_get, components_get_module_path,
    components_get_constructor, components_get_parameters,
    components_get_parameter, components_search
  • docs_get_pages, docs_get_page, docs_get_reference_page, docs_search,
    docs_search_content`,
		Example: `  # Run over stdio
  pmui-mcp serve

  # Serve over HTTP
  pmui-mcp serve --transport http --addr :8000

  # Serve the newest stored snapshot
  pmui-mcp serve --snapshot

  # Serve a specific snapshot (see 'pmui-mcp list snapshots')
  pmui-mcp serve --snapshot=0b5c6f2e-8d7a-4e1b-9f3c-2a4d6e8f0a1b`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Server.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Address = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, snapshot, dbPath)
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", "", "Transport: stdio or http (overrides server.transport)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.address)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Serve a stored snapshot: --snapshot for the newest, --snapshot=<id> for one by id")
	cmd.Flags().Lookup("snapshot").NoOptDefVal = latestSnapshot
	cmd.Flags().StringVar(&dbPath, "db", "", "Snapshot database (default: ~/.pmui-mcp/snapshots.db)")

	return cmd
}

// runServe builds the catalog and serves it until a signal arrives or the
// transport ends. Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe(parent context.Context, cfg *config.Config, snapshot, dbPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cat, err := openCatalog(ctx, cfg, snapshot, dbPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	server, err := mcp.NewServer(cfg, cat)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received signal, shutting down gracefully")
		// Run returns once the transport has drained.
		if err := <-errChan; err != nil {
			return err
		}
		log.Info().Msg("shutdown complete")
		return nil
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// openCatalog builds the catalog from disk, or loads it from the snapshot
// database when snapshot is set.
func openCatalog(ctx context.Context, cfg *config.Config, snapshot, dbPath string) (*catalog.Catalog, error) {
	if snapshot == "" {
		return catalog.Build(ctx, cfg)
	}

	store, err := openStorage(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	id := snapshot
	if id == latestSnapshot {
		id = ""
	}
	return catalog.FromSnapshot(ctx, store, id, cfg)
}

func openStorage(dbPath string) (*storage.SQLiteStorage, error) {
	if dbPath == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	store := storage.NewStorage(dbPath)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return store, nil
}
