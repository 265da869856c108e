// Package response provides utility functions for creating MCP tool responses.
// Every tool answer in this server is plain text, including the fallback
// sentences used when the weather provider cannot be reached.
package response

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Text creates a successful MCP tool response carrying a single text block.
// The error return is always nil; it exists so handlers can return the call
// directly from a tool handler function.
func Text(text string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(text), nil
}

// TextOf extracts the concatenated text blocks of a tool result. It returns
// an empty string for a nil result.
func TextOf(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var text string
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			text += c.Text
		case *mcp.TextContent:
			text += c.Text
		}
	}
	return text
}
