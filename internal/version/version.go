/*
Package version provides version information for pmui-mcp.

Version values are set via ldflags during build:

	go build -ldflags "-X github.com/pmui/pmui-mcp/internal/version.Version=v0.3.0 \
	  -X github.com/pmui/pmui-mcp/internal/version.Commit=$(git rev-parse --short HEAD) \
	  -X github.com/pmui/pmui-mcp/internal/version.Date=$(date -u +%F)"

If not set via ldflags, defaults to "dev" build.
*/
package version

// Version information (set via ldflags during build)
var (
	// Version is the current version (e.g., v0.3.0)
	Version = "dev"
	// Commit is the git commit hash (short form)
	Commit = "none"
	// Date is the build date in UTC (YYYY-MM-DD)
	Date = "unknown"
)

// Info is the build information reported by "pmui-mcp version --json".
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build information for display.
func (i Info) String() string {
	if i.Version == "dev" {
		return i.Version + " (development build)"
	}
	return i.Version + " (commit: " + i.Commit + ", built: " + i.Date + ")"
}
