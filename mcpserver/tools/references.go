package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterFindReferencesTool registers find_references. The declaration is
// always part of the result set.
func RegisterFindReferencesTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("find_references",
		mcp.WithDescription("Find all references to the symbol at a position, including its declaration"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number (1-based)")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Column number (1-based)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		line, err := request.RequireInt("line")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		col, err := request.RequireInt("col")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		client, uri, err := ensureDocument(bridge, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		raw, err := client.References(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("references request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		result, err := normalizeLocations(bridge, raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return jsonResult(result), nil
	})
}
