package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterSignatureHelpTool registers signature_help. Documentation fields
// are flattened; activeSignature and activeParameter default to 0.
func RegisterSignatureHelpTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("signature_help",
		mcp.WithDescription("Get signature help for the call at a position"),
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

		raw, err := client.SignatureHelp(uri, wirePosition(line, col))
		if err != nil {
			logger.Debugw("signature help request failed", "file", file, "error", err)
			return errorResult(err.Error()), nil
		}

		value, err := decodeAny(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		help, ok := value.(map[string]any)
		if !ok {
			return jsonResult(nil), nil
		}

		return jsonResult(normalizeSignatureHelp(help)), nil
	})
}

func normalizeSignatureHelp(help map[string]any) map[string]any {
	signatures := []map[string]any{}

	if rawSignatures, ok := help["signatures"].([]any); ok {
		for _, entry := range rawSignatures {
			signature, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			normalized := map[string]any{
				"label": signature["label"],
			}
			if doc, ok := signature["documentation"]; ok {
				normalized["documentation"] = flattenContents(doc)
			}
			if rawParameters, ok := signature["parameters"].([]any); ok {
				parameters := make([]map[string]any, 0, len(rawParameters))
				for _, p := range rawParameters {
					parameter, ok := p.(map[string]any)
					if !ok {
						continue
					}
					normalizedParameter := map[string]any{
						"label": parameter["label"],
					}
					if doc, ok := parameter["documentation"]; ok {
						normalizedParameter["documentation"] = flattenContents(doc)
					}
					parameters = append(parameters, normalizedParameter)
				}
				normalized["parameters"] = parameters
			}

			signatures = append(signatures, normalized)
		}
	}

	activeSignature := 0
	if n, ok := help["activeSignature"].(float64); ok {
		activeSignature = int(n)
	}

	activeParameter := 0
	if n, ok := help["activeParameter"].(float64); ok {
		activeParameter = int(n)
	}

	return map[string]any{
		"signatures":      signatures,
		"activeSignature": activeSignature,
		"activeParameter": activeParameter,
	}
}
