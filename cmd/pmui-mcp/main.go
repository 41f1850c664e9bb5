/*
Package main is the entry point for the pmui-mcp CLI.

pmui-mcp is an MCP server that gives AI assistants the Panel Material UI
documentation pages and component metadata: constructor signatures,
parameters with their defaults and docs, and ranked search over both.

Usage:

	pmui-mcp [command]

Available Commands:

	serve       Run the MCP server (stdio or streamable HTTP transport)
	list        List documentation pages or components
	search      Search documentation pages or components
	export      Export the catalog for offline search or as a snapshot
	verify      Verify configuration, docs directory and component manifest
	version     Show version information
	help        Help about any command

Examples:

	# Run as MCP server over stdio
	pmui-mcp serve --config ~/.pmui-mcp.yaml

	# Check what would be served
	pmui-mcp list components --summary
*/
package main

import (
	"fmt"
	"os"

	"github.com/pmui/pmui-mcp/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
