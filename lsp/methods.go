package lsp

import (
	"encoding/json"

	"github.com/myleshyson/lsprotocol-go/protocol"
)

// LSP request surface. Every method returns the peer's reply as raw JSON;
// shape normalization is the dispatcher's job.

func textDocument(uri string) protocol.TextDocumentIdentifier {
	return protocol.TextDocumentIdentifier{Uri: protocol.DocumentUri(uri)}
}

// Definition sends a textDocument/definition request
func (c *Client) Definition(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.DefinitionParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/definition", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TypeDefinition sends a textDocument/typeDefinition request
func (c *Client) TypeDefinition(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.TypeDefinitionParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/typeDefinition", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Implementation sends a textDocument/implementation request
func (c *Client) Implementation(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.ImplementationParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/implementation", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Declaration sends a textDocument/declaration request
func (c *Client) Declaration(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.DeclarationParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/declaration", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// References sends a textDocument/references request. The declaration is
// always included in the result set.
func (c *Client) References(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.ReferenceParams{
		TextDocument: textDocument(uri),
		Position:     position,
		Context:      protocol.ReferenceContext{IncludeDeclaration: true},
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/references", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Hover sends a textDocument/hover request
func (c *Client) Hover(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.HoverParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/hover", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SignatureHelp sends a textDocument/signatureHelp request
func (c *Client) SignatureHelp(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.SignatureHelpParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/signatureHelp", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DocumentSymbols sends a textDocument/documentSymbol request
func (c *Client) DocumentSymbols(uri string) (json.RawMessage, error) {
	params := protocol.DocumentSymbolParams{
		TextDocument: textDocument(uri),
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/documentSymbol", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// WorkspaceSymbols sends a workspace/symbol query
func (c *Client) WorkspaceSymbols(query string) (json.RawMessage, error) {
	params := protocol.WorkspaceSymbolParams{
		Query: query,
	}

	var result json.RawMessage
	if err := c.SendRequest("workspace/symbol", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CodeActions sends a textDocument/codeAction request for a range with an
// optional set of contextual diagnostics.
func (c *Client) CodeActions(uri string, rng protocol.Range, diagnostics []protocol.Diagnostic) (json.RawMessage, error) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	params := protocol.CodeActionParams{
		TextDocument: textDocument(uri),
		Range:        rng,
		Context: protocol.CodeActionContext{
			Diagnostics: diagnostics,
		},
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/codeAction", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PrepareRename sends a textDocument/prepareRename request
func (c *Client) PrepareRename(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.PrepareRenameParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/prepareRename", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Rename sends a textDocument/rename request
func (c *Client) Rename(uri string, position protocol.Position, newName string) (json.RawMessage, error) {
	params := protocol.RenameParams{
		TextDocument: textDocument(uri),
		Position:     position,
		NewName:      newName,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/rename", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PrepareCallHierarchy sends a textDocument/prepareCallHierarchy request
func (c *Client) PrepareCallHierarchy(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.CallHierarchyPrepareParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/prepareCallHierarchy", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CallHierarchyIncoming fetches incoming calls for a prepared item. The item
// is passed back to the peer verbatim.
func (c *Client) CallHierarchyIncoming(item any) (json.RawMessage, error) {
	params := map[string]any{"item": item}

	var result json.RawMessage
	if err := c.SendRequest("callHierarchy/incomingCalls", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CallHierarchyOutgoing fetches outgoing calls for a prepared item.
func (c *Client) CallHierarchyOutgoing(item any) (json.RawMessage, error) {
	params := map[string]any{"item": item}

	var result json.RawMessage
	if err := c.SendRequest("callHierarchy/outgoingCalls", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PrepareTypeHierarchy sends a textDocument/prepareTypeHierarchy request
func (c *Client) PrepareTypeHierarchy(uri string, position protocol.Position) (json.RawMessage, error) {
	params := protocol.TypeHierarchyPrepareParams{
		TextDocument: textDocument(uri),
		Position:     position,
	}

	var result json.RawMessage
	if err := c.SendRequest("textDocument/prepareTypeHierarchy", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TypeHierarchySupertypes fetches supertypes for a prepared item.
func (c *Client) TypeHierarchySupertypes(item any) (json.RawMessage, error) {
	params := map[string]any{"item": item}

	var result json.RawMessage
	if err := c.SendRequest("typeHierarchy/supertypes", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TypeHierarchySubtypes fetches subtypes for a prepared item.
func (c *Client) TypeHierarchySubtypes(item any) (json.RawMessage, error) {
	params := map[string]any{"item": item}

	var result json.RawMessage
	if err := c.SendRequest("typeHierarchy/subtypes", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendCustomRequest forwards a non-standard method with opaque params; used
// for per-peer protocol extensions.
func (c *Client) SendCustomRequest(method string, params any) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.SendRequest(method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
