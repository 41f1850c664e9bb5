package cli

import (
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "pmui-mcp" {
		t.Errorf("Expected Use='pmui-mcp', got %q", cmd.Use)
	}

	for _, name := range []string{"config", "log-level"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag %q not registered", name)
		}
	}

	want := map[string]bool{"serve": false, "list": false, "search": false, "export": false, "verify": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Subcommand %q not registered", name)
		}
	}
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/pmui-mcp.yaml", "list", "docs")
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "version"); err == nil {
		t.Fatal("Expected error for invalid log level")
	}
}
