package mcpserver

import (
	"context"

	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "lspmux"
	serverVersion = "0.1.0"
)

// SetupMCPServer configures the MCP server exposing the bridge's tools.
func SetupMCPServer(bridge interfaces.BridgeInterface) *server.MCPServer {
	hooks := &server.Hooks{}

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		logger.Debugw("tool call", "id", id, "tool", message.Params.Name)
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Errorw("mcp error", "id", id, "method", method, "error", err)
	})

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
		server.WithInstructions(`This server bridges Language Server Protocol peers into MCP tools.

Positions are 1-based {file, line, col} with file paths relative to the
project root. Language servers start lazily on the first call touching a
file they match; the first call against a cold server can take a while.
Results are JSON payloads in a single text block.`),
	)

	RegisterAllTools(mcpServer, bridge)

	return mcpServer
}
