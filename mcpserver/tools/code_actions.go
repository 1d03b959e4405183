package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterCodeActionsTool registers code_actions. The range runs from
// {line, col} to {endLine, endCol}, with the end defaulting to the start.
func RegisterCodeActionsTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("code_actions",
		mcp.WithDescription("List code actions available for a range"),
		mcp.WithString("file", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Start line (1-based)")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Start column (1-based)")),
		mcp.WithNumber("endLine", mcp.Description("End line (1-based, defaults to line)")),
		mcp.WithNumber("endCol", mcp.Description("End column (1-based, defaults to col)")),
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

		endLine := request.GetInt("endLine", line)
		endCol := request.GetInt("endCol", col)

		client, uri, err := ensureDocument(bridge, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		raw, err := client.CodeActions(uri, wireRange(line, col, endLine, endCol), nil)
		if err != nil {
			logger.Debugw("code action request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		items, ok := value.([]any)
		if !ok {
			return jsonResult([]any{}), nil
		}

		actions := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				actions = append(actions, normalizeCodeAction(bridge, m))
			}
		}

		return jsonResult(actions), nil
	})
}

// normalizeCodeAction reduces the Command/CodeAction variants. A bare
// Command carries its command as a string; a CodeAction nests it.
func normalizeCodeAction(bridge interfaces.BridgeInterface, action map[string]any) map[string]any {
	if command, ok := action["command"].(string); ok {
		return map[string]any{
			"title":   action["title"],
			"command": command,
		}
	}

	normalized := map[string]any{
		"title": action["title"],
	}

	if kind, ok := action["kind"].(string); ok && kind != "" {
		normalized["kind"] = kind
	}
	if preferred, ok := action["isPreferred"].(bool); ok {
		normalized["isPreferred"] = preferred
	}
	if edit, ok := action["edit"].(map[string]any); ok {
		normalized["edit"] = normalizeWorkspaceEdit(bridge, edit)
	}
	if diagnostics, ok := action["diagnostics"].([]any); ok && len(diagnostics) > 0 {
		normalizedDiagnostics := make([]map[string]any, 0, len(diagnostics))
		for _, d := range diagnostics {
			if m, ok := d.(map[string]any); ok {
				normalizedDiagnostics = append(normalizedDiagnostics, normalizeRawDiagnostic(m))
			}
		}
		normalized["diagnostics"] = normalizedDiagnostics
	}

	return normalized
}

// normalizeRawDiagnostic converts a decoded diagnostic map to the 1-based
// output shape.
func normalizeRawDiagnostic(diagnostic map[string]any) map[string]any {
	normalized := map[string]any{
		"message": diagnostic["message"],
	}

	if rng, ok := diagnostic["range"].(map[string]any); ok {
		normalized["range"] = outRange(rng)
	}
	if severity, ok := diagnostic["severity"].(float64); ok {
		normalized["severity"] = severityNameFromValue(severity)
	}
	if source, ok := diagnostic["source"].(string); ok && source != "" {
		normalized["source"] = source
	}

	return normalized
}
