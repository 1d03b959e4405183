package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

// RegisterDocumentSymbolsTool registers document_symbols. Hierarchical
// DocumentSymbol replies keep their tree shape; flat SymbolInformation
// replies are reduced to {name, kind, file, line, col}. The two forms are
// told apart by the presence of selectionRange on the first element.
func RegisterDocumentSymbolsTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("document_symbols",
		mcp.WithDescription("List all symbols in a file"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		client, uri, err := ensureDocument(bridge, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		raw, err := client.DocumentSymbols(uri)
		if err != nil {
			logger.Debugw("document symbols request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		items, ok := value.([]any)
		if !ok || len(items) == 0 {
			return jsonResult([]any{}), nil
		}

		hierarchical := gjson.GetBytes(raw, "0.selectionRange").Exists()

		if hierarchical {
			symbols := make([]map[string]any, 0, len(items))
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					symbols = append(symbols, normalizeDocumentSymbol(m))
				}
			}
			return jsonResult(symbols), nil
		}

		symbols := make([]map[string]any, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}

			location, _ := m["location"].(map[string]any)
			uri, _ := location["uri"].(string)
			rng, _ := location["range"].(map[string]any)
			line, col := rangeStart(rng)

			symbols = append(symbols, map[string]any{
				"name": m["name"],
				"kind": symbolKindNameFromValue(m["kind"]),
				"file": bridge.RelativePath(uri),
				"line": line,
				"col":  col,
			})
		}

		return jsonResult(symbols), nil
	})
}

func normalizeDocumentSymbol(symbol map[string]any) map[string]any {
	normalized := map[string]any{
		"name": symbol["name"],
		"kind": symbolKindNameFromValue(symbol["kind"]),
	}

	if detail, ok := symbol["detail"].(string); ok && detail != "" {
		normalized["detail"] = detail
	}
	if rng, ok := symbol["range"].(map[string]any); ok {
		normalized["range"] = outRange(rng)
	}
	if rng, ok := symbol["selectionRange"].(map[string]any); ok {
		normalized["selectionRange"] = outRange(rng)
	}
	if children, ok := symbol["children"].([]any); ok && len(children) > 0 {
		normalizedChildren := make([]map[string]any, 0, len(children))
		for _, child := range children {
			if m, ok := child.(map[string]any); ok {
				normalizedChildren = append(normalizedChildren, normalizeDocumentSymbol(m))
			}
		}
		normalized["children"] = normalizedChildren
	}

	return normalized
}
