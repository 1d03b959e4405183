package lsp

import (
	"os"

	"codemux/lspmux/logger"
	"codemux/lspmux/utils"

	"github.com/cockroachdb/errors"
	"github.com/myleshyson/lsprotocol-go/protocol"
)

// EnsureOpen makes sure the document at the given absolute path is open on
// the peer and returns its URI. Opening reads the file, infers a language
// identifier, and announces the document at version 1.
func (c *Client) EnsureOpen(path string) (string, error) {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	if _, ok := c.docs[uri]; ok {
		return uri, nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	return uri, c.openLocked(path, uri, string(text))
}

// openLocked records and announces a new document. Callers hold docMu.
func (c *Client) openLocked(path, uri, text string) error {
	doc := &Document{
		Path:       path,
		Uri:        uri,
		LanguageID: LanguageIDForPath(path),
		Version:    1,
		Text:       text,
	}
	c.docs[uri] = doc

	params := protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			Uri:        protocol.DocumentUri(uri),
			LanguageId: protocol.LanguageKind(doc.LanguageID),
			Version:    doc.Version,
			Text:       doc.Text,
		},
	}
	if err := c.SendNotification("textDocument/didOpen", params); err != nil {
		delete(c.docs, uri)
		return err
	}

	if c.observer != nil {
		c.observer.DocumentOpened(path)
	}

	return nil
}

// NotifyChange replaces a document's text, bumping its version and sending
// a full-text change notification. An unopened path is opened instead.
func (c *Client) NotifyChange(path, text string) error {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	doc, ok := c.docs[uri]
	if !ok {
		return c.openLocked(path, uri, text)
	}

	doc.Version++
	doc.Text = text

	params := map[string]any{
		"textDocument": map[string]any{
			"uri":     uri,
			"version": doc.Version,
		},
		"contentChanges": []map[string]any{
			{"text": text},
		},
	}

	return c.SendNotification("textDocument/didChange", params)
}

// NotifySave emits a save notification carrying the current text. No-op for
// documents that are not open.
func (c *Client) NotifySave(path string) error {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	doc, ok := c.docs[uri]
	if !ok {
		return nil
	}

	params := map[string]any{
		"textDocument": map[string]any{
			"uri": uri,
		},
		"text": doc.Text,
	}

	return c.SendNotification("textDocument/didSave", params)
}

// NotifyClose closes a document on the peer and drops it from the open set
// and the diagnostics cache.
func (c *Client) NotifyClose(path string) error {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	if _, ok := c.docs[uri]; !ok {
		return nil
	}

	delete(c.docs, uri)

	c.diagMu.Lock()
	delete(c.diagCache, uri)
	c.diagMu.Unlock()

	if c.observer != nil {
		c.observer.DocumentClosed(path)
	}

	params := map[string]any{
		"textDocument": map[string]any{
			"uri": uri,
		},
	}

	if err := c.SendNotification("textDocument/didClose", params); err != nil {
		logger.Debugw("didClose failed", "server", c.name, "path", path, "error", err)
		return err
	}

	return nil
}

// IsOpen reports whether the path is currently synchronized to the peer.
func (c *Client) IsOpen(path string) bool {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	_, ok := c.docs[uri]
	return ok
}

// OpenDocuments returns the absolute paths of every open document.
func (c *Client) OpenDocuments() []string {
	c.docMu.Lock()
	defer c.docMu.Unlock()

	paths := make([]string, 0, len(c.docs))
	for _, doc := range c.docs {
		paths = append(paths, doc.Path)
	}
	return paths
}

// DocumentVersion returns the current version for an open document, or 0.
func (c *Client) DocumentVersion(path string) int32 {
	uri := utils.FilePathToURI(path)

	c.docMu.Lock()
	defer c.docMu.Unlock()

	if doc, ok := c.docs[uri]; ok {
		return doc.Version
	}
	return 0
}
