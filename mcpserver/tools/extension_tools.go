package tools

import (
	"context"
	"encoding/json"

	"codemux/lspmux/extensions"
	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterExtensionTools registers one tool per extension declared by any
// configured peer, running or not. Calls against a peer that is not Ready
// yet report that no server currently provides the tool.
func RegisterExtensionTools(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	for _, ext := range bridge.AllConfiguredExtensions() {
		registerExtensionTool(mcpServer, bridge, ext)
	}
}

func registerExtensionTool(mcpServer ToolServer, bridge interfaces.BridgeInterface, ext extensions.Extension) {
	options := []mcp.ToolOption{
		mcp.WithDescription(ext.Description),
	}

	switch ext.Shape {
	case extensions.ShapeDocument:
		options = append(options,
			mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
		)
	case extensions.ShapePosition:
		options = append(options,
			mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
			mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number (1-based)")),
			mcp.WithNumber("col", mcp.Required(), mcp.Description("Column number (1-based)")),
		)
	case extensions.ShapeRaw:
		// Params pass through unshaped.
	}

	mcpServer.AddTool(mcp.NewTool(ext.ToolName, options...), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		client, ok := bridge.ClientForExtensionTool(ext.ToolName)
		if !ok {
			return errorResult("no running language server provides " + ext.ToolName), nil
		}

		params, err := buildExtensionParams(bridge, client, ext, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		raw, err := client.SendCustomRequest(ext.Method, params)
		if err != nil {
			logger.Debugw("extension request failed", "tool", ext.ToolName, "method", ext.Method, "error", err)
			return errorResult(err.Error()), nil
		}

		// Extension payloads are returned without transformation.
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		return mcp.NewToolResultText(string(raw)), nil
	})
}

func buildExtensionParams(bridge interfaces.BridgeInterface, client interfaces.LanguageClient, ext extensions.Extension, request mcp.CallToolRequest) (any, error) {
	switch ext.Shape {
	case extensions.ShapeDocument, extensions.ShapePosition:
		file, err := request.RequireString("file")
		if err != nil {
			return nil, err
		}

		abs, err := bridge.AbsolutePath(file)
		if err != nil {
			return nil, err
		}

		uri, err := client.EnsureOpen(abs)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", file)
		}

		params := map[string]any{
			"textDocument": map[string]any{"uri": uri},
		}

		if ext.Shape == extensions.ShapePosition {
			line, err := request.RequireInt("line")
			if err != nil {
				return nil, err
			}
			col, err := request.RequireInt("col")
			if err != nil {
				return nil, err
			}
			position := wirePosition(line, col)
			params["position"] = map[string]any{
				"line":      position.Line,
				"character": position.Character,
			}
		}

		return params, nil

	default:
		return request.GetArguments(), nil
	}
}
