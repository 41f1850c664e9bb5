/*
Package mcp implements the Panel Material UI MCP server.

Two sub-servers are composed into one top-level server under name prefixes:
  - components: component metadata (components_get_all, components_get,
    components_get_parameters, components_search, ...)
  - docs: documentation pages (docs_get_pages, docs_get_page,
    docs_get_reference_page, docs_search, docs_search_content)

The server also exposes template apps and the best practices page as
resources, and a "learn" prompt. It serves over stdio or streamable HTTP.
*/
package mcp

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/pmui/pmui-mcp/internal/version"
	"github.com/rs/zerolog/log"
)

// ServerName is the name announced to clients.
const ServerName = "Panel Material UI Suite"

const suiteInstructions = `This is a MCP server that provides comprehensive tools for building
Panel applications with Material UI components and following best practices.

Use this server to access:
- Panel Material UI components: Explore and use various components for building interactive applications.
- Documentation: Get guidelines on how to create documentation for your Panel applications.
- Best practices: Learn how to structure your Panel applications effectively.
- Example applications: Get example code to kickstart your Panel projects.`

const learnPrompt = `Welcome to the Panel Material UI MCP Server!

Please:

- read the component best practices for both Panel and Panel Material UI
- read the example applications for Panel Material UI to understand how to use the components effectively
- explore the available documentation and component tools, resources and prompts`

const shutdownTimeout = 5 * time.Second

// Server is the composed MCP server.
type Server struct {
	cfg *config.Config
	cat *catalog.Catalog
	mcp *server.MCPServer
}

// NewServer composes the components and docs sub-servers over cat.
func NewServer(cfg *config.Config, cat *catalog.Catalog) (*Server, error) {
	subs := []*SubServer{
		NewComponentsServer(cat, cfg.Server.Aliases),
		NewDocsServer(cat, cfg.Server.Aliases),
	}

	s := server.NewMCPServer(
		ServerName,
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithInstructions(instructions(subs)),
		server.WithToolHandlerMiddleware(logToolCalls),
		server.WithRecovery(),
	)

	for _, sub := range subs {
		if err := Compose(s, sub); err != nil {
			return nil, err
		}
		log.Debug().Str("server", sub.Name).Str("prefix", sub.Prefix).Int("tools", len(sub.Tools)).Msg("composed sub-server")
	}

	s.AddPrompt(
		mcp.NewPrompt("learn", mcp.WithPromptDescription("Learn the basics of the Panel Material UI MCP server")),
		func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return mcp.NewGetPromptResult(
				"Learn the basics of the Panel Material UI MCP server",
				[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(learnPrompt))},
			), nil
		},
	)

	return &Server{cfg: cfg, cat: cat, mcp: s}, nil
}

func instructions(subs []*SubServer) string {
	var b strings.Builder
	b.WriteString(suiteInstructions)
	for _, sub := range subs {
		fmt.Fprintf(&b, "\n\n## %s (tools prefixed %s_)\n\n%s", sub.Name, sub.Prefix, sub.Instructions)
	}
	return b.String()
}

func logToolCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := next(ctx, request)

		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		} else if res != nil && res.IsError {
			event = log.Info().Bool("tool_error", true)
		}
		event.Str("tool", request.Params.Name).Dur("elapsed", time.Since(start)).Msg("tool call")
		return res, err
	}
}

// MCPServer returns the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Run serves on the configured transport until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Server.Transport {
	case config.TransportHTTP:
		return s.serveHTTP(ctx, s.cfg.Server.Address)
	default:
		return s.serveStdio(ctx)
	}
}

// serveStdio serves on stdin/stdout. Logs must never go to stdout here.
func (s *Server) serveStdio(ctx context.Context) error {
	log.Info().Msg("serving MCP over stdio")
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("serving MCP over streamable HTTP")
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http transport failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http transport: %w", err)
	}
	log.Info().Msg("http transport stopped")
	return nil
}
