package response

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	result, err := Text("No active alerts found.")
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)
	assert.Equal(t, "No active alerts found.", TextOf(result))
}

func TestTextOf(t *testing.T) {
	assert.Empty(t, TextOf(nil))

	result := &mcp.CallToolResult{Content: []mcp.Content{
		mcp.TextContent{Type: "text", Text: "Name: Tonight\n"},
		&mcp.TextContent{Type: "text", Text: "---\n"},
		mcp.ImageContent{Type: "image", Data: "aGk=", MIMEType: "image/png"},
	}}
	assert.Equal(t, "Name: Tonight\n---\n", TextOf(result))
}
