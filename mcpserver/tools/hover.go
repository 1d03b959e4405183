package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterHoverTool registers the hover tool. Contents are flattened to a
// single string regardless of which content variant the peer replies with.
func RegisterHoverTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("hover",
		mcp.WithDescription("Get hover information (documentation, type info) for the symbol at a position"),
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

		raw, err := client.Hover(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("hover request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		hover, ok := value.(map[string]any)
		if !ok {
			return jsonResult(nil), nil
		}

		result := map[string]any{
			"contents": flattenContents(hover["contents"]),
		}
		if rng, ok := hover["range"].(map[string]any); ok {
			result["range"] = outRange(rng)
		}

		return jsonResult(result), nil
	})
}
