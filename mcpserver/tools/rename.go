package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

// RegisterRenameTools registers rename_prepare and rename.
func RegisterRenameTools(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	registerRenamePrepareTool(mcpServer, bridge)
	registerRenameTool(mcpServer, bridge)
}

// rename_prepare distinguishes the three prepare-rename reply variants: a
// bare range, {range, placeholder}, and {defaultBehavior}.
func registerRenamePrepareTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("rename_prepare",
		mcp.WithDescription("Check whether the symbol at a position can be renamed"),
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

		raw, err := client.PrepareRename(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("prepare rename request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		m, ok := value.(map[string]any)
		if !ok {
			return jsonResult(map[string]any{"canRename": false}), nil
		}

		switch {
		case gjson.GetBytes(raw, "defaultBehavior").Exists():
			canRename, _ := m["defaultBehavior"].(bool)
			return jsonResult(map[string]any{"canRename": canRename}), nil

		case gjson.GetBytes(raw, "placeholder").Exists():
			result := map[string]any{
				"canRename":   true,
				"placeholder": m["placeholder"],
			}
			if rng, ok := m["range"].(map[string]any); ok {
				result["range"] = outRange(rng)
			}
			return jsonResult(result), nil

		case gjson.GetBytes(raw, "start").Exists():
			return jsonResult(map[string]any{
				"canRename": true,
				"range":     outRange(m),
			}), nil

		default:
			return jsonResult(map[string]any{"canRename": false}), nil
		}
	})
}

func registerRenameTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("rename",
		mcp.WithDescription("Rename the symbol at a position across the workspace"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number (1-based)")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Column number (1-based)")),
		mcp.WithString("newName", mcp.Required(), mcp.Description("New name for the symbol")),
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

		newName, err := request.RequireString("newName")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		client, uri, err := ensureDocument(bridge, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		raw, err := client.Rename(uri, wirePosition(line, col), newName)
		if err != nil {
			logger.Debugw("rename request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		edit, ok := value.(map[string]any)
		if !ok {
			return jsonResult(nil), nil
		}

		return jsonResult(normalizeWorkspaceEdit(bridge, edit)), nil
	})
}
