package mcpserver

import (
	"codemux/lspmux/interfaces"
	"codemux/lspmux/mcpserver/tools"

	"github.com/mark3labs/mcp-go/server"
)

// RegisterAllTools wires the full tool catalog plus any extension tools
// declared by configured peers. The catalog is always advertised,
// independent of which peers have started.
func RegisterAllTools(mcpServer *server.MCPServer, bridge interfaces.BridgeInterface) {
	// Navigation
	tools.RegisterGotoTools(mcpServer, bridge)
	tools.RegisterFindReferencesTool(mcpServer, bridge)

	// Inspection
	tools.RegisterHoverTool(mcpServer, bridge)
	tools.RegisterSignatureHelpTool(mcpServer, bridge)
	tools.RegisterDocumentSymbolsTool(mcpServer, bridge)
	tools.RegisterWorkspaceSymbolsTool(mcpServer, bridge)

	// Refactoring
	tools.RegisterCodeActionsTool(mcpServer, bridge)
	tools.RegisterRenameTools(mcpServer, bridge)

	// Hierarchy
	tools.RegisterCallHierarchyTools(mcpServer, bridge)
	tools.RegisterTypeHierarchyTool(mcpServer, bridge)

	// Always available
	tools.RegisterOpenFileTool(mcpServer, bridge)
	tools.RegisterDiagnosticsTool(mcpServer, bridge)

	// Per-peer protocol extensions
	tools.RegisterExtensionTools(mcpServer, bridge)
}
