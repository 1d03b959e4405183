package tools

import (
	"context"
	"encoding/json"

	"codemux/lspmux/async"
	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterTypeHierarchyTool registers type_hierarchy. Supertypes and
// subtypes for the prepared item are fetched concurrently.
func RegisterTypeHierarchyTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("type_hierarchy",
		mcp.WithDescription("Show supertypes and subtypes of the type at a position"),
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

		prepared, err := client.PrepareTypeHierarchy(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("type hierarchy prepare failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		item, err := firstItem(prepared)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if item == nil {
			return jsonResult(nil), nil
		}

		results, err := async.MapWithKeys(ctx, map[string]func() (json.RawMessage, error){
			"supertypes": func() (json.RawMessage, error) { return client.TypeHierarchySupertypes(item) },
			"subtypes":   func() (json.RawMessage, error) { return client.TypeHierarchySubtypes(item) },
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}

		itemMap, _ := item.(map[string]any)
		result := map[string]any{
			"item":       normalizeHierarchyItem(bridge, itemMap),
			"supertypes": []map[string]any{},
			"subtypes":   []map[string]any{},
		}

		for _, keyed := range results {
			if keyed.Error != nil {
				logger.Debugw("type hierarchy fetch failed", "direction", keyed.Key, "error", keyed.Error)
				continue
			}
			result[keyed.Key] = normalizeHierarchyItems(bridge, keyed.Value)
		}

		return jsonResult(result), nil
	})
}

func normalizeHierarchyItems(bridge interfaces.BridgeInterface, raw json.RawMessage) []map[string]any {
	value, err := decodeAny(raw)
	if err != nil {
		return []map[string]any{}
	}

	items, ok := value.([]any)
	if !ok {
		return []map[string]any{}
	}

	normalized := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			normalized = append(normalized, normalizeHierarchyItem(bridge, m))
		}
	}
	return normalized
}
