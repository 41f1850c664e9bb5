/*
Package config handles loading and validating pmui-mcp configuration.

Configuration is layered with viper: built-in defaults, then an optional YAML
file (~/.pmui-mcp.yaml or --config), then PMUI_MCP_* environment variables.

Schema:

	docs:
	  root: ./doc
	  base_url: https://panel-material-ui.holoviz.org/
	  include: ["**.md"]
	  ignore: ["**_build**", "**__pycache__**", "**.pytest_cache**"]
	components:
	  manifest: ""            # empty uses the embedded manifest
	  base: panel_material_ui.base.MaterialComponent
	  namespace: panel_material_ui
	search:
	  default_limit: 10
	  component_ranking: tokenized
	  content_index: true
	server:
	  transport: stdio
	  address: 127.0.0.1:8000
	  aliases: false
	log:
	  level: info
	  format: console
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (PMUI_MCP_DOCS_ROOT, ...).
const EnvPrefix = "PMUI_MCP"

// Config represents the root configuration structure.
type Config struct {
	Docs       DocsConfig       `mapstructure:"docs"`
	Components ComponentsConfig `mapstructure:"components"`
	Search     SearchConfig     `mapstructure:"search"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`

	// path of the file the config was read from, empty when only defaults apply.
	source string
}

// DocsConfig controls documentation discovery.
type DocsConfig struct {
	// Root is the documentation directory that is walked for markdown pages.
	Root string `mapstructure:"root"`

	// BaseURL is prepended to the relative page path to build page URLs.
	BaseURL string `mapstructure:"base_url"`

	// Include globs are matched against slash-separated relative paths.
	Include []string `mapstructure:"include"`

	// Ignore globs exclude build output and caches.
	Ignore []string `mapstructure:"ignore"`
}

// ComponentsConfig controls component discovery.
type ComponentsConfig struct {
	// Manifest overrides the embedded component manifest when set.
	Manifest string `mapstructure:"manifest"`

	// Base is the module path of the root component type.
	Base string `mapstructure:"base"`

	// Namespace filters discovered types by module prefix.
	Namespace string `mapstructure:"namespace"`
}

// SearchConfig controls ranking.
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`

	// ComponentRanking is "tokenized" or the deprecated "simple".
	ComponentRanking string `mapstructure:"component_ranking"`

	// ContentIndex enables the full-text page content index.
	ContentIndex bool `mapstructure:"content_index"`
}

// ServerConfig controls the MCP transport.
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	Address   string `mapstructure:"address"`

	// Aliases registers long-form tool names next to the prefixed ones.
	Aliases bool `mapstructure:"aliases"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	RankingTokenized = "tokenized"
	RankingSimple    = "simple"
)

// Default returns the built-in configuration. Files and environment are
// not consulted.
func Default() *Config {
	v := newViper()
	cfg := &Config{}
	// Only built-in values reach Unmarshal here, so a failure is a bug.
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config: built-in defaults do not decode: %v", err))
	}
	return cfg
}

// GetDefaultConfigPath returns the path to ~/.pmui-mcp.yaml
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pmui-mcp.yaml"), nil
}

// Load reads the configuration from the default path. A missing default file
// is not an error; defaults and environment still apply.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return LoadFrom("")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return LoadFrom("")
	}
	return LoadFrom(configPath)
}

// Source returns the file the configuration was read from.
func (c *Config) Source() string {
	return c.source
}

// Validate checks enumerations and required values.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Docs.Root) == "" {
		problems = append(problems, "docs.root must not be empty")
	}
	if len(c.Docs.Include) == 0 {
		problems = append(problems, "docs.include needs at least one pattern")
	}
	if c.Components.Base == "" {
		problems = append(problems, "components.base must not be empty")
	}
	if c.Search.DefaultLimit <= 0 {
		problems = append(problems, fmt.Sprintf("search.default_limit must be positive, got %d", c.Search.DefaultLimit))
	}
	switch c.Search.ComponentRanking {
	case RankingTokenized, RankingSimple:
	default:
		problems = append(problems, fmt.Sprintf("search.component_ranking must be %q or %q, got %q",
			RankingTokenized, RankingSimple, c.Search.ComponentRanking))
	}
	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Address == "" {
			problems = append(problems, "server.address is required for the http transport")
		}
	default:
		problems = append(problems, fmt.Sprintf("server.transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, c.Server.Transport))
	}

	if len(problems) == 0 {
		return nil
	}
	return &InvalidConfigError{
		Path:    c.source,
		Message: strings.Join(problems, "\n"),
		Hint:    "Run 'pmui-mcp verify' after fixing the values above",
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("docs.root", "./doc")
	v.SetDefault("docs.base_url", "https://panel-material-ui.holoviz.org/")
	v.SetDefault("docs.include", []string{"**.md"})
	v.SetDefault("docs.ignore", []string{"**_build**", "**__pycache__**", "**.pytest_cache**"})

	v.SetDefault("components.manifest", "")
	v.SetDefault("components.base", "panel_material_ui.base.MaterialComponent")
	v.SetDefault("components.namespace", "panel_material_ui")

	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.component_ranking", RankingTokenized)
	v.SetDefault("search.content_index", true)

	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.address", "127.0.0.1:8000")
	v.SetDefault("server.aliases", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	return v
}

// bindEnv enables PMUI_MCP_* overrides for every key.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
