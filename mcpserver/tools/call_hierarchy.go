package tools

import (
	"context"
	"encoding/json"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterCallHierarchyTools registers call_hierarchy_incoming and
// call_hierarchy_outgoing. Both prepare at the position, take the first
// prepared item, and resolve the calls for it.
func RegisterCallHierarchyTools(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	registerCallHierarchyTool(mcpServer, bridge, "call_hierarchy_incoming",
		"List callers of the function at a position", "from",
		func(client interfaces.LanguageClient, item any) (json.RawMessage, error) {
			return client.CallHierarchyIncoming(item)
		})

	registerCallHierarchyTool(mcpServer, bridge, "call_hierarchy_outgoing",
		"List calls made by the function at a position", "to",
		func(client interfaces.LanguageClient, item any) (json.RawMessage, error) {
			return client.CallHierarchyOutgoing(item)
		})
}

func registerCallHierarchyTool(mcpServer ToolServer, bridge interfaces.BridgeInterface, name, description, endpointKey string, resolve func(interfaces.LanguageClient, any) (json.RawMessage, error)) {
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

		prepared, err := client.PrepareCallHierarchy(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("call hierarchy prepare failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		item, err := firstItem(prepared)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if item == nil {
			return jsonResult(nil), nil
		}

		raw, err := resolve(client, item)
		if err != nil {
			logger.Debugw("call hierarchy resolve failed", "tool", name, "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		calls, ok := value.([]any)
		if !ok {
			return jsonResult([]any{}), nil
		}

		normalized := make([]map[string]any, 0, len(calls))
		for _, call := range calls {
			m, ok := call.(map[string]any)
			if !ok {
				continue
			}

			entry := map[string]any{}
			if endpoint, ok := m[endpointKey].(map[string]any); ok {
				entry[endpointKey] = normalizeHierarchyItem(bridge, endpoint)
			}
			if fromRanges, ok := m["fromRanges"].([]any); ok {
				positions := make([]map[string]any, 0, len(fromRanges))
				for _, fr := range fromRanges {
					if rng, ok := fr.(map[string]any); ok {
						frLine, frCol := rangeStart(rng)
						positions = append(positions, map[string]any{"line": frLine, "col": frCol})
					}
				}
				entry["fromRanges"] = positions
			}

			normalized = append(normalized, entry)
		}

		return jsonResult(normalized), nil
	})
}
