package tools

import (
	"context"
	"encoding/json"

	"codemux/lspmux/async"
	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"
	"codemux/lspmux/utils"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterWorkspaceSymbolsTool registers workspace_symbols. The query fans
// out to every Ready peer concurrently; failed peers are dropped from the
// result.
func RegisterWorkspaceSymbolsTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("workspace_symbols",
		mcp.WithDescription("Search for symbols across the whole workspace"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Symbol query string")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		clients := bridge.AllClients()

		ops := make([]func() ([]map[string]any, error), 0, len(clients))
		for _, client := range clients {
			c := client
			ops = append(ops, func() ([]map[string]any, error) {
				raw, err := c.WorkspaceSymbols(query)
				if err != nil {
					return nil, err
				}
				return normalizeWorkspaceSymbols(bridge, raw)
			})
		}

		results, err := async.Map(ctx, ops)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		flattened := utils.FlattenResults(results)
		for _, peerErr := range flattened.Errors {
			logger.Warnw("workspace symbol query failed on a peer", "error", peerErr)
		}

		symbols := flattened.Values
		if symbols == nil {
			symbols = []map[string]any{}
		}

		return jsonResult(symbols), nil
	})
}

// normalizeWorkspaceSymbols handles both SymbolInformation (location with a
// range) and WorkspaceSymbol (location that may be a bare uri).
func normalizeWorkspaceSymbols(bridge interfaces.BridgeInterface, raw json.RawMessage) ([]map[string]any, error) {
	value, err := decodeAny(raw)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]any)
	if !ok {
		return nil, nil
	}

	symbols := make([]map[string]any, 0, len(items))

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		normalized := map[string]any{
			"name": m["name"],
			"kind": symbolKindNameFromValue(m["kind"]),
		}
		if container, ok := m["containerName"].(string); ok && container != "" {
			normalized["containerName"] = container
		}

		if location, ok := m["location"].(map[string]any); ok {
			if uri, ok := location["uri"].(string); ok {
				normalized["file"] = bridge.RelativePath(uri)
			}
			if rng, ok := location["range"].(map[string]any); ok {
				line, col := rangeStart(rng)
				normalized["line"] = line
				normalized["col"] = col
			}
		}

		symbols = append(symbols, normalized)
	}

	return symbols, nil
}
