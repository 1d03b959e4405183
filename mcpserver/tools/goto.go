package tools

import (
	"context"
	"encoding/json"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/myleshyson/lsprotocol-go/protocol"
)

type positionRequest func(client interfaces.LanguageClient, uri string, position protocol.Position) (json.RawMessage, error)

// RegisterGotoTools registers the four navigation tools. They share one
// shape: resolve the client, open the document, send the request, collapse
// Location/LocationLink variants.
func RegisterGotoTools(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	registerGotoTool(mcpServer, bridge, "goto_definition",
		"Find the definition of the symbol at a position",
		func(client interfaces.LanguageClient, uri string, position protocol.Position) (json.RawMessage, error) {
			return client.Definition(uri, position)
		})

	registerGotoTool(mcpServer, bridge, "goto_type_definition",
		"Find the type definition of the symbol at a position",
		func(client interfaces.LanguageClient, uri string, position protocol.Position) (json.RawMessage, error) {
			return client.TypeDefinition(uri, position)
		})

	registerGotoTool(mcpServer, bridge, "goto_implementation",
		"Find implementations of the symbol at a position",
		func(client interfaces.LanguageClient, uri string, position protocol.Position) (json.RawMessage, error) {
			return client.Implementation(uri, position)
		})

	registerGotoTool(mcpServer, bridge, "goto_declaration",
		"Find the declaration of the symbol at a position",
		func(client interfaces.LanguageClient, uri string, position protocol.Position) (json.RawMessage, error) {
			return client.Declaration(uri, position)
		})
}

func registerGotoTool(mcpServer ToolServer, bridge interfaces.BridgeInterface, name, description string, send positionRequest) {
	mcpServer.AddTool(mcp.NewTool(name,
		mcp.WithDescription(description),
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

		raw, err := send(client, uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("navigation request failed", "tool", name, "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		result, err := normalizeLocations(bridge, raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return jsonResult(result), nil
	})
}
