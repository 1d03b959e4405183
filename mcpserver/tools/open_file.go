package tools

import (
	"context"

	"codemux/lspmux/interfaces"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterOpenFileTool registers open_file, which synchronizes a document
// to its peer without asking anything of it.
func RegisterOpenFileTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("open_file",
		mcp.WithDescription("Open a file on its language server so diagnostics start flowing"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		if _, _, err := ensureDocument(bridge, file); err != nil {
			return errorResult(err.Error()), nil
		}

		return jsonResult(map[string]any{
			"file":   file,
			"opened": true,
		}), nil
	})
}
