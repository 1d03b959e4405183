package interfaces

import (
	"encoding/json"
	"time"

	"codemux/lspmux/extensions"
	"codemux/lspmux/lsp"

	"github.com/myleshyson/lsprotocol-go/protocol"
)

// LanguageClient is the client surface the tool dispatcher consumes.
type LanguageClient interface {
	Name() string
	State() lsp.ClientState

	EnsureOpen(path string) (string, error)
	NotifyChange(path, text string) error
	NotifySave(path string) error
	NotifyClose(path string) error

	Definition(uri string, position protocol.Position) (json.RawMessage, error)
	TypeDefinition(uri string, position protocol.Position) (json.RawMessage, error)
	Implementation(uri string, position protocol.Position) (json.RawMessage, error)
	Declaration(uri string, position protocol.Position) (json.RawMessage, error)
	References(uri string, position protocol.Position) (json.RawMessage, error)
	Hover(uri string, position protocol.Position) (json.RawMessage, error)
	SignatureHelp(uri string, position protocol.Position) (json.RawMessage, error)
	DocumentSymbols(uri string) (json.RawMessage, error)
	WorkspaceSymbols(query string) (json.RawMessage, error)
	CodeActions(uri string, rng protocol.Range, diagnostics []protocol.Diagnostic) (json.RawMessage, error)
	PrepareRename(uri string, position protocol.Position) (json.RawMessage, error)
	Rename(uri string, position protocol.Position, newName string) (json.RawMessage, error)
	PrepareCallHierarchy(uri string, position protocol.Position) (json.RawMessage, error)
	CallHierarchyIncoming(item any) (json.RawMessage, error)
	CallHierarchyOutgoing(item any) (json.RawMessage, error)
	PrepareTypeHierarchy(uri string, position protocol.Position) (json.RawMessage, error)
	TypeHierarchySupertypes(item any) (json.RawMessage, error)
	TypeHierarchySubtypes(item any) (json.RawMessage, error)
	SendCustomRequest(method string, params any) (json.RawMessage, error)

	WaitForDiagnostics(uri string, timeout time.Duration) []protocol.Diagnostic
	AllCachedDiagnostics() map[string][]protocol.Diagnostic
}

// BridgeInterface is what the MCP tool layer sees of the multiplexer.
type BridgeInterface interface {
	ProjectRoot() string
	Configured() bool

	EnsureClientForFile(relPath string) (LanguageClient, error)
	ClientForFile(relPath string) (LanguageClient, bool)
	ClientsForFile(relPath string) []LanguageClient
	AllClients() []LanguageClient

	AllConfiguredExtensions() []extensions.Extension
	ClientForExtensionTool(toolName string) (LanguageClient, bool)

	AbsolutePath(relPath string) (string, error)
	RelativePath(path string) string
	FileURI(relPath string) (string, error)
}
