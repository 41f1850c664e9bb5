/*
Package cli implements the pmui-mcp commands.

Every command shares the global --config and --log-level flags. The
configuration is loaded lazily by the commands that need it so that verify can
report a broken file instead of failing before it runs.
*/
package cli

import (
	"fmt"

	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/logging"
	"github.com/pmui/pmui-mcp/internal/version"
	"github.com/spf13/cobra"
)

// options carries the global flags and the loaded configuration.
type options struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

// NewRootCmd creates the pmui-mcp root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pmui-mcp",
		Short: "MCP server for Panel Material UI documentation and components",
		Long: `pmui-mcp serves the Panel Material UI documentation pages and component
metadata to AI assistants over the Model Context Protocol.

Documentation is read from a local docs directory, components from the
embedded manifest (or one given in the configuration).`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := opts.logLevel
			if level == "" {
				level = "info"
			}
			return logging.Setup(level, "console", cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ~/.pmui-mcp.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides log.level)")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newExportCmd(opts),
		newVerifyCmd(opts),
		NewVersionCmd(),
	)
	return cmd
}

// config loads the configuration once and reinstalls the
// logger with the configured level and format.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}

	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	o.cfg = cfg
	return cfg, nil
}

func (o *options) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
