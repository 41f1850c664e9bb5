package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pmui/pmui-mcp/internal/components"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/docs"
	"github.com/spf13/cobra"
)

var errVerifyFailed = errors.New("verification failed")

// newVerifyCmd creates the 'verify' command for verifying configuration.
func newVerifyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration, docs directory and component manifest",
		Long: `Verify that the configuration is valid, that the documentation directory
can be walked and that the component manifest loads and yields components.`,
		Example: `  pmui-mcp verify
  pmui-mcp verify --config ./pmui-mcp.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	return cmd
}

// runVerify prints one line per check and fails if any check failed.
func runVerify(ctx context.Context, w io.Writer, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.load()
	if err != nil {
		fmt.Fprintf(w, "✗ Config: %v\n", err)
		return errVerifyFailed
	}
	source := cfg.Source()
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(w, "✓ Config: %s\n", source)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "✗ %v\n", err)
		return errVerifyFailed
	}
	fmt.Fprintf(w, "✓ Transport: %s\n", cfg.Server.Transport)

	ok := verifyDocs(ctx, w, cfg.Docs)
	ok = verifyComponents(ctx, w, cfg.Components) && ok
	if !ok {
		return errVerifyFailed
	}
	return nil
}

func verifyDocs(ctx context.Context, w io.Writer, cfg config.DocsConfig) bool {
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		fmt.Fprintf(w, "✗ Docs root: %s is not a directory\n", cfg.Root)
		return false
	}
	fmt.Fprintf(w, "✓ Docs root: %s\n", cfg.Root)

	collector, err := docs.NewCollector(cfg)
	if err != nil {
		fmt.Fprintf(w, "✗ Docs globs: %v\n", err)
		return false
	}
	collection, err := collector.Collect(ctx)
	if err != nil {
		fmt.Fprintf(w, "✗ Docs: %v\n", err)
		return false
	}
	if collection.TotalCount() == 0 {
		fmt.Fprintf(w, "✗ Docs: no pages matched %v\n", cfg.Include)
		return false
	}
	fmt.Fprintf(w, "✓ Docs pages: %d\n", collection.TotalCount())
	return true
}

func verifyComponents(ctx context.Context, w io.Writer, cfg config.ComponentsConfig) bool {
	manifest := cfg.Manifest
	if manifest == "" {
		manifest = "embedded"
	}

	registry, err := components.OpenRegistry(cfg.Manifest)
	if err != nil {
		fmt.Fprintf(w, "✗ Manifest (%s): %v\n", manifest, err)
		return false
	}
	fmt.Fprintf(w, "✓ Manifest (%s): %d types\n", manifest, registry.Len())

	collection, err := components.NewCollector(registry, cfg).Collect(ctx)
	if err != nil {
		fmt.Fprintf(w, "✗ Components: %v\n", err)
		return false
	}
	if collection.TotalCount() == 0 {
		fmt.Fprintf(w, "✗ Components: no subclasses of %s in %s\n", cfg.Base, cfg.Namespace)
		return false
	}
	fmt.Fprintf(w, "✓ Components: %d\n", collection.TotalCount())
	return true
}
