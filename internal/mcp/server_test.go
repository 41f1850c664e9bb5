package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type rpcClient struct {
	t      *testing.T
	server *server.MCPServer
	nextID int
}

func (c *rpcClient) call(method string, params interface{}) json.RawMessage {
	c.t.Helper()
	c.nextID++
	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      c.nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(c.t, err)

	out := c.server.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(out)
	require.NoError(c.t, err)

	var resp rpcResponse
	require.NoError(c.t, json.Unmarshal(data, &resp))
	require.Nil(c.t, resp.Error, "%s failed: %s", method, data)
	return resp.Result
}

func newTestClient(t *testing.T, aliases bool) *rpcClient {
	cfg := config.Default()
	cfg.Server.Aliases = aliases
	s, err := NewServer(cfg, testCatalog(t))
	require.NoError(t, err)

	c := &rpcClient{t: t, server: s.MCPServer()}
	c.call("initialize", map[string]interface{}{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})
	return c
}

func TestServer_Initialize(t *testing.T) {
	c := &rpcClient{t: t}
	s, err := NewServer(config.Default(), testCatalog(t))
	require.NoError(t, err)
	c.server = s.MCPServer()

	raw := c.call("initialize", map[string]interface{}{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	var result struct {
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
		Instructions string `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, ServerName, result.ServerInfo.Name)
	assert.Contains(t, result.Instructions, "Panel Material UI Documentation")
	assert.Contains(t, result.Instructions, "tools prefixed components_")
}

func TestServer_ToolsArePrefixed(t *testing.T) {
	c := newTestClient(t, false)

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(c.call("tools/list", map[string]interface{}{}), &result))

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"components_get_all",
		"components_get",
		"components_get_module_path",
		"components_get_constructor",
		"components_get_parameters",
		"components_get_parameter",
		"components_search",
		"docs_get_pages",
		"docs_get_page",
		"docs_get_reference_page",
		"docs_search",
		"docs_search_content",
	}, names)
}

func TestServer_Aliases(t *testing.T) {
	c := newTestClient(t, true)

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(c.call("tools/list", map[string]interface{}{}), &result))
	assert.Len(t, result.Tools, 12+7)
}

func TestServer_CallTool(t *testing.T) {
	c := newTestClient(t, false)

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	raw := c.call("tools/call", map[string]interface{}{
		"name":      "components_get",
		"arguments": map[string]interface{}{"component_name": "Buton"},
	})
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, `"suggestions":["Button"]`)

	raw = c.call("tools/call", map[string]interface{}{
		"name":      "docs_get_reference_page",
		"arguments": map[string]interface{}{"component": "Button"},
	})
	result.IsError = false
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.False(t, result.IsError)
	assert.Equal(t, "# Button\n\nThe Button widget triggers events when clicked.\n", result.Content[0].Text)
}

func TestServer_Resources(t *testing.T) {
	c := newTestClient(t, false)

	var list struct {
		Resources []struct {
			URI      string `json:"uri"`
			Name     string `json:"name"`
			MIMEType string `json:"mimeType"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(c.call("resources/list", map[string]interface{}{}), &list))

	uris := map[string]string{}
	for _, r := range list.Resources {
		uris[r.URI] = r.MIMEType
	}
	assert.Equal(t, map[string]string{
		"app://components/basic/hello_world":        "text/python",
		"app://components/intermediate/hello_world": "text/python",
		"docs://docs/explanation/best_practices":    "text/markdown",
	}, uris)

	for uri, want := range map[string]string{
		"app://components/basic/hello_world":        "import panel_material_ui as pmui",
		"app://components/intermediate/hello_world": "param",
		"docs://docs/explanation/best_practices":    "# Best Practices",
	} {
		var read struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		}
		require.NoError(t, json.Unmarshal(c.call("resources/read", map[string]interface{}{"uri": uri}), &read))
		require.Len(t, read.Contents, 1, uri)
		assert.Equal(t, uri, read.Contents[0].URI)
		assert.Contains(t, read.Contents[0].Text, want, uri)
	}
}

func TestServer_LearnPrompt(t *testing.T) {
	c := newTestClient(t, false)

	var result struct {
		Messages []struct {
			Role    string `json:"role"`
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(c.call("prompts/get", map[string]interface{}{"name": "learn"}), &result))
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "user", result.Messages[0].Role)
	assert.Contains(t, result.Messages[0].Content.Text, "Welcome to the Panel Material UI MCP Server!")
}

func TestPrefixURI(t *testing.T) {
	tests := []struct {
		prefix, uri, want string
		wantErr           bool
	}{
		{"components", "app://basic/hello_world", "app://components/basic/hello_world", false},
		{"docs", "docs://explanation/best_practices", "docs://docs/explanation/best_practices", false},
		{"", "app://basic/hello_world", "app://basic/hello_world", false},
		{"docs", "no-scheme", "", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.prefix, tt.uri), func(t *testing.T) {
			got, err := prefixURI(tt.prefix, tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompose_BadResource(t *testing.T) {
	s := server.NewMCPServer("test", "1.0.0", server.WithResourceCapabilities(false, false))
	err := Compose(s, &SubServer{Name: "bad", Prefix: "x", Resources: []Resource{{URI: "nope"}}})
	assert.Error(t, err)
}
