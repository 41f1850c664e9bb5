package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./doc", cfg.Docs.Root)
	assert.Equal(t, "https://panel-material-ui.holoviz.org/", cfg.Docs.BaseURL)
	assert.Equal(t, []string{"**.md"}, cfg.Docs.Include)
	assert.Len(t, cfg.Docs.Ignore, 3)
	assert.Equal(t, "panel_material_ui.base.MaterialComponent", cfg.Components.Base)
	assert.Equal(t, "panel_material_ui", cfg.Components.Namespace)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, RankingTokenized, cfg.Search.ComponentRanking)
	assert.True(t, cfg.Search.ContentIndex)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.False(t, cfg.Server.Aliases)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("PMUI_MCP_DOCS_ROOT", "/from/env")
	t.Setenv("PMUI_MCP_SEARCH_DEFAULT_LIMIT", "not-a-number")

	var cfg *Config
	require.NotPanics(t, func() { cfg = Default() })
	assert.Equal(t, "./doc", cfg.Docs.Root)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)

	_, err := LoadFrom("")
	var invalid *InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "decode error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty doc root",
			mutate:  func(c *Config) { c.Docs.Root = " " },
			wantErr: "docs.root",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Server.Transport = "websocket" },
			wantErr: "server.transport",
		},
		{
			name: "http without address",
			mutate: func(c *Config) {
				c.Server.Transport = TransportHTTP
				c.Server.Address = ""
			},
			wantErr: "server.address",
		},
		{
			name:    "unknown ranking",
			mutate:  func(c *Config) { c.Search.ComponentRanking = "bm25" },
			wantErr: "search.component_ranking",
		},
		{
			name:    "zero limit",
			mutate:  func(c *Config) { c.Search.DefaultLimit = 0 },
			wantErr: "search.default_limit",
		},
		{
			name:   "simple ranking is allowed",
			mutate: func(c *Config) { c.Search.ComponentRanking = RankingSimple },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var invalid *InvalidConfigError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "💡")
		})
	}
}
