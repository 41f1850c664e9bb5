package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool is a tool definition before it is registered under a prefix.
type Tool struct {
	Name    string
	Options []mcp.ToolOption
	Handler server.ToolHandlerFunc
}

// Resource is a fixed text resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Read        func(ctx context.Context) (string, error)
}

// SubServer groups tools and resources that are composed into the main
// server under a common prefix.
type SubServer struct {
	Name         string
	Prefix       string
	Instructions string
	Tools        []Tool
	Resources    []Resource
}

// Compose registers every tool of sub as "<prefix>_<name>" and every
// resource as "<scheme>://<prefix>/<rest>".
func Compose(s *server.MCPServer, sub *SubServer) error {
	for _, t := range sub.Tools {
		s.AddTool(mcp.NewTool(prefixName(sub.Prefix, t.Name), t.Options...), t.Handler)
	}

	for _, r := range sub.Resources {
		uri, err := prefixURI(sub.Prefix, r.URI)
		if err != nil {
			return fmt.Errorf("%s: %w", sub.Name, err)
		}
		res := mcp.NewResource(uri, r.Name,
			mcp.WithResourceDescription(r.Description),
			mcp.WithMIMEType(r.MIMEType),
		)
		s.AddResource(res, resourceHandler(uri, r))
	}
	return nil
}

func resourceHandler(uri string, r Resource) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := r.Read(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: r.MIMEType, Text: text},
		}, nil
	}
}

func prefixName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

func prefixURI(prefix, uri string) (string, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "", fmt.Errorf("resource URI %q has no scheme", uri)
	}
	if prefix == "" {
		return uri, nil
	}
	return scheme + "://" + prefix + "/" + rest, nil
}
