package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var fixturePages = map[string]string{
	"index.md":                    "# Panel Material UI\n\nMaterial components for Panel.\n",
	"reference/widgets/Button.md": "# Button\n\nThe Button widget triggers events when clicked.\n",
	"reference/layouts/Card.md":   "# Card\n\nA Card layout with a collapsible header.\n",
	"_build/html/ignored.md":      "# Ignored\n",
}

// writeFixture creates a docs tree and a config file pointing at it and
// returns the config path.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "doc")
	for rel, content := range fixturePages {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := filepath.Join(dir, "pmui-mcp.yaml")
	cfg := fmt.Sprintf("docs:\n  root: %q\nlog:\n  level: warn\n", root)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// execute runs the root command and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
