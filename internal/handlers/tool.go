package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolHandler produces the text answer for a single tool call. A non-nil
// error means the call itself was malformed and is reported to the client
// as a protocol error; provider problems are expressed in the returned text.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (string, error)

// MCPTool represents a tool with both its definition and handler combined
type MCPTool struct {
	tool    mcp.Tool
	handler ToolHandler
}

// NewMCPTool creates a new MCPTool with the given tool definition and handler
func NewMCPTool(tool mcp.Tool, handler ToolHandler) MCPTool {
	return MCPTool{
		tool:    tool,
		handler: handler,
	}
}

// Tool returns the tool definition
func (t MCPTool) Tool() mcp.Tool {
	return t.tool
}

// Handler returns the tool handler function
func (t MCPTool) Handler() ToolHandler {
	return t.handler
}

// ToolRegistrator interface for structs that can provide MCP tools
type ToolRegistrator interface {
	GetTools() []MCPTool
}
