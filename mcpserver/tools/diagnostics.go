package tools

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/lsp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/myleshyson/lsprotocol-go/protocol"
)

// RegisterDiagnosticsTool registers diagnostics. With a file, the document
// is opened and the call waits for the next publish (or a fresh cache hit).
// Without one, every Ready peer's cached diagnostics are concatenated.
func RegisterDiagnosticsTool(mcpServer ToolServer, bridge interfaces.BridgeInterface) {
	mcpServer.AddTool(mcp.NewTool("diagnostics",
		mcp.WithDescription("Get diagnostics for a file, or everything cached across the workspace"),
		mcp.WithString("file", mcp.Description("File path relative to the project root (omit for all cached diagnostics)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		file := request.GetString("file", "")

		if file == "" {
			return jsonResult(collectCachedDiagnostics(bridge)), nil
		}

		client, uri, err := ensureDocument(bridge, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		diagnostics := client.WaitForDiagnostics(uri, lsp.DiagnosticsWaitTimeout)

		return jsonResult(normalizeDiagnostics(file, diagnostics)), nil
	})
}

func collectCachedDiagnostics(bridge interfaces.BridgeInterface) []map[string]any {
	all := []map[string]any{}

	for _, client := range bridge.AllClients() {
		for uri, diagnostics := range client.AllCachedDiagnostics() {
			all = append(all, normalizeDiagnostics(bridge.RelativePath(uri), diagnostics)...)
		}
	}

	return all
}

// normalizeDiagnostics flattens a typed diagnostics batch to 1-based
// per-diagnostic entries tagged with the file.
func normalizeDiagnostics(file string, diagnostics []protocol.Diagnostic) []map[string]any {
	normalized := make([]map[string]any, 0, len(diagnostics))

	for _, diagnostic := range diagnostics {
		entry := map[string]any{
			"file":    file,
			"range":   outProtocolRange(diagnostic.Range),
			"message": diagnostic.Message,
		}
		if name := severityName(diagnostic.Severity); name != "" {
			entry["severity"] = name
		}
		if diagnostic.Source != "" {
			entry["source"] = diagnostic.Source
		}

		normalized = append(normalized, entry)
	}

	return normalized
}
