package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmui/pmui-mcp/internal/search"
)

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// lookupError turns a failed lookup into a tool error. Not-found errors carry
// their structured JSON payload so clients can read the suggestions.
func lookupError(err error) (*mcp.CallToolResult, error) {
	var nf *search.NotFoundError
	if errors.As(err, &nf) {
		payload, merr := json.Marshal(nf)
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal not-found payload: %w", merr)
		}
		return mcp.NewToolResultError(string(payload)), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

// queryArgs reads the query and limit arguments shared by the search tools.
func queryArgs(request mcp.CallToolRequest) (string, int, *mcp.CallToolResult) {
	query, err := request.RequireString("query")
	if err != nil {
		return "", 0, mcp.NewToolResultError(err.Error())
	}
	return query, request.GetInt("limit", 0), nil
}
