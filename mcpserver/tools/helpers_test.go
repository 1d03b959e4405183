package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codemux/lspmux/extensions"
	"codemux/lspmux/interfaces"
	"codemux/lspmux/lsp"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/stretchr/testify/require"
)

// toolCapture records registered tools so tests can invoke handlers
// directly.
type toolCapture struct {
	tools    map[string]mcp.Tool
	handlers map[string]server.ToolHandlerFunc
}

func newToolCapture() *toolCapture {
	return &toolCapture{
		tools:    make(map[string]mcp.Tool),
		handlers: make(map[string]server.ToolHandlerFunc),
	}
}

func (tc *toolCapture) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	tc.tools[tool.Name] = tool
	tc.handlers[tool.Name] = handler
}

func (tc *toolCapture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	handler, ok := tc.handlers[name]
	require.True(t, ok, "tool %q not registered", name)

	result, err := handler(context.Background(), mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) any {
	t.Helper()

	var value any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &value))
	return value
}

// fakeClient implements interfaces.LanguageClient with overridable
// behaviors; every request defaults to a null reply.
type fakeClient struct {
	name string

	ensureOpenFunc func(path string) (string, error)
	openedPaths    []string

	requestFunc map[string]func(uri string, position protocol.Position) (json.RawMessage, error)

	documentSymbolsFunc  func(uri string) (json.RawMessage, error)
	workspaceSymbolsFunc func(query string) (json.RawMessage, error)
	codeActionsFunc      func(uri string, rng protocol.Range, diagnostics []protocol.Diagnostic) (json.RawMessage, error)
	renameFunc           func(uri string, position protocol.Position, newName string) (json.RawMessage, error)
	itemRequestFunc      map[string]func(item any) (json.RawMessage, error)
	customRequestFunc    func(method string, params any) (json.RawMessage, error)

	waitDiagnosticsFunc func(uri string, timeout time.Duration) []protocol.Diagnostic
	cachedFunc          func() map[string][]protocol.Diagnostic

	lastPosition *protocol.Position
	lastRange    *protocol.Range
}

func newFakeClient(name string) *fakeClient {
	return &fakeClient{
		name:            name,
		requestFunc:     make(map[string]func(string, protocol.Position) (json.RawMessage, error)),
		itemRequestFunc: make(map[string]func(any) (json.RawMessage, error)),
	}
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) State() lsp.ClientState { return lsp.StateReady }

func (f *fakeClient) EnsureOpen(path string) (string, error) {
	f.openedPaths = append(f.openedPaths, path)
	if f.ensureOpenFunc != nil {
		return f.ensureOpenFunc(path)
	}
	return "file://" + path, nil
}

func (f *fakeClient) NotifyChange(path, text string) error { return nil }
func (f *fakeClient) NotifySave(path string) error         { return nil }
func (f *fakeClient) NotifyClose(path string) error        { return nil }

func (f *fakeClient) positionRequest(method, uri string, position protocol.Position) (json.RawMessage, error) {
	f.lastPosition = &position
	if fn, ok := f.requestFunc[method]; ok {
		return fn(uri, position)
	}
	return nil, nil
}

func (f *fakeClient) Definition(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("definition", uri, position)
}

func (f *fakeClient) TypeDefinition(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("typeDefinition", uri, position)
}

func (f *fakeClient) Implementation(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("implementation", uri, position)
}

func (f *fakeClient) Declaration(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("declaration", uri, position)
}

func (f *fakeClient) References(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("references", uri, position)
}

func (f *fakeClient) Hover(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("hover", uri, position)
}

func (f *fakeClient) SignatureHelp(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("signatureHelp", uri, position)
}

func (f *fakeClient) DocumentSymbols(uri string) (json.RawMessage, error) {
	if f.documentSymbolsFunc != nil {
		return f.documentSymbolsFunc(uri)
	}
	return nil, nil
}

func (f *fakeClient) WorkspaceSymbols(query string) (json.RawMessage, error) {
	if f.workspaceSymbolsFunc != nil {
		return f.workspaceSymbolsFunc(query)
	}
	return nil, nil
}

func (f *fakeClient) CodeActions(uri string, rng protocol.Range, diagnostics []protocol.Diagnostic) (json.RawMessage, error) {
	f.lastRange = &rng
	if f.codeActionsFunc != nil {
		return f.codeActionsFunc(uri, rng, diagnostics)
	}
	return nil, nil
}

func (f *fakeClient) PrepareRename(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("prepareRename", uri, position)
}

func (f *fakeClient) Rename(uri string, position protocol.Position, newName string) (json.RawMessage, error) {
	f.lastPosition = &position
	if f.renameFunc != nil {
		return f.renameFunc(uri, position, newName)
	}
	return nil, nil
}

func (f *fakeClient) PrepareCallHierarchy(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("prepareCallHierarchy", uri, position)
}

func (f *fakeClient) itemRequest(method string, item any) (json.RawMessage, error) {
	if fn, ok := f.itemRequestFunc[method]; ok {
		return fn(item)
	}
	return nil, nil
}

func (f *fakeClient) CallHierarchyIncoming(item any) (json.RawMessage, error) {
	return f.itemRequest("incoming", item)
}

func (f *fakeClient) CallHierarchyOutgoing(item any) (json.RawMessage, error) {
	return f.itemRequest("outgoing", item)
}

func (f *fakeClient) PrepareTypeHierarchy(uri string, position protocol.Position) (json.RawMessage, error) {
	return f.positionRequest("prepareTypeHierarchy", uri, position)
}

func (f *fakeClient) TypeHierarchySupertypes(item any) (json.RawMessage, error) {
	return f.itemRequest("supertypes", item)
}

func (f *fakeClient) TypeHierarchySubtypes(item any) (json.RawMessage, error) {
	return f.itemRequest("subtypes", item)
}

func (f *fakeClient) SendCustomRequest(method string, params any) (json.RawMessage, error) {
	if f.customRequestFunc != nil {
		return f.customRequestFunc(method, params)
	}
	return nil, nil
}

func (f *fakeClient) WaitForDiagnostics(uri string, timeout time.Duration) []protocol.Diagnostic {
	if f.waitDiagnosticsFunc != nil {
		return f.waitDiagnosticsFunc(uri, timeout)
	}
	return nil
}

func (f *fakeClient) AllCachedDiagnostics() map[string][]protocol.Diagnostic {
	if f.cachedFunc != nil {
		return f.cachedFunc()
	}
	return nil
}

// fakeBridge implements interfaces.BridgeInterface over fake clients with a
// /proj project root.
type fakeBridge struct {
	root      string
	client    interfaces.LanguageClient
	clients   []interfaces.LanguageClient
	exts      []extensions.Extension
	extClient interfaces.LanguageClient
	ensureErr error
}

func newFakeBridge(client interfaces.LanguageClient) *fakeBridge {
	return &fakeBridge{root: "/proj", client: client}
}

func (b *fakeBridge) ProjectRoot() string { return b.root }

func (b *fakeBridge) Configured() bool { return b.client != nil || len(b.clients) > 0 }

func (b *fakeBridge) EnsureClientForFile(relPath string) (interfaces.LanguageClient, error) {
	if b.ensureErr != nil {
		return nil, b.ensureErr
	}
	if b.client == nil {
		return nil, errors.Newf("no language server matches %q", relPath)
	}
	return b.client, nil
}

func (b *fakeBridge) ClientForFile(relPath string) (interfaces.LanguageClient, bool) {
	if b.client == nil {
		return nil, false
	}
	return b.client, true
}

func (b *fakeBridge) ClientsForFile(relPath string) []interfaces.LanguageClient {
	return b.AllClients()
}

func (b *fakeBridge) AllClients() []interfaces.LanguageClient {
	if b.clients != nil {
		return b.clients
	}
	if b.client != nil {
		return []interfaces.LanguageClient{b.client}
	}
	return nil
}

func (b *fakeBridge) AllConfiguredExtensions() []extensions.Extension { return b.exts }

func (b *fakeBridge) ClientForExtensionTool(toolName string) (interfaces.LanguageClient, bool) {
	if b.extClient == nil {
		return nil, false
	}
	return b.extClient, true
}

func (b *fakeBridge) AbsolutePath(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return relPath, nil
	}
	return filepath.Join(b.root, relPath), nil
}

func (b *fakeBridge) RelativePath(path string) string {
	path = strings.TrimPrefix(path, "file://")
	return strings.TrimPrefix(path, b.root+"/")
}

func (b *fakeBridge) FileURI(relPath string) (string, error) {
	abs, err := b.AbsolutePath(relPath)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}
