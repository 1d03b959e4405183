package bridge

import (
	"context"
	"sync"

	"codemux/lspmux/async"
	"codemux/lspmux/collections"
	"codemux/lspmux/extensions"
	"codemux/lspmux/interfaces"
	"codemux/lspmux/logger"
	"codemux/lspmux/lsp"

	"github.com/cockroachdb/errors"
)

// Bridge multiplexes tool calls over the configured language server peers:
// it selects clients by glob, starts them lazily on first match, fans out
// workspace-wide queries, and routes extension tools.
type Bridge struct {
	projectRoot string
	clients     []*lsp.Client

	// Serializes lazy starts so one tool call starts at most one peer.
	startMu sync.Mutex

	watcher DocumentWatcher
}

// DocumentWatcher receives the open-document set for disk resync.
type DocumentWatcher interface {
	Watch(path string)
	Unwatch(path string)
	Stop()
}

// New builds a bridge from the loaded configuration. Clients are created
// eagerly (glob compilation happens here); subprocesses are not spawned.
func New(config *lsp.BridgeConfig, projectRoot string) (*Bridge, error) {
	b := &Bridge{projectRoot: projectRoot}

	for _, serverConfig := range config.Servers {
		client, err := lsp.NewClient(serverConfig, projectRoot)
		if err != nil {
			return nil, err
		}
		b.clients = append(b.clients, client)
	}

	return b, nil
}

// ProjectRoot returns the absolute project root path.
func (b *Bridge) ProjectRoot() string {
	return b.projectRoot
}

// Configured reports whether any peers are registered.
func (b *Bridge) Configured() bool {
	return len(b.clients) > 0
}

// ServerNames returns configured peer names in configuration order.
func (b *Bridge) ServerNames() []string {
	return collections.TransformSlice(b.clients, func(client *lsp.Client) string {
		return client.Name()
	})
}

// EnsureClientForFile returns a Ready client whose globs match the file,
// starting the first matching Idle client when none is running yet. Dead
// clients are never restarted.
func (b *Bridge) EnsureClientForFile(relPath string) (interfaces.LanguageClient, error) {
	if !b.Configured() {
		return nil, errors.New("no language servers configured; create a config file mapping server names to commands and file patterns")
	}

	for _, client := range b.clients {
		if client.State() == lsp.StateReady && client.Matches(relPath) {
			return client, nil
		}
	}

	b.startMu.Lock()
	defer b.startMu.Unlock()

	// Re-check under the lock; a concurrent call may have started a match.
	for _, client := range b.clients {
		if client.State() == lsp.StateReady && client.Matches(relPath) {
			return client, nil
		}
	}

	for _, client := range b.clients {
		if client.State() != lsp.StateIdle || !client.Matches(relPath) {
			continue
		}

		if err := client.Start(); err != nil {
			logger.Errorw("language server failed to start", "server", client.Name(), "error", err)
			return nil, errors.Newf("no language server available for %q", relPath)
		}

		return client, nil
	}

	return nil, errors.Newf("no language server matches %q", relPath)
}

// ClientForFile returns the first Ready client matching the file. No start.
func (b *Bridge) ClientForFile(relPath string) (interfaces.LanguageClient, bool) {
	for _, client := range b.clients {
		if client.State() == lsp.StateReady && client.Matches(relPath) {
			return client, true
		}
	}
	return nil, false
}

// ClientsForFile returns every Ready client matching the file, in
// configuration order.
func (b *Bridge) ClientsForFile(relPath string) []interfaces.LanguageClient {
	var matched []interfaces.LanguageClient
	for _, client := range b.clients {
		if client.State() == lsp.StateReady && client.Matches(relPath) {
			matched = append(matched, client)
		}
	}
	return matched
}

// AllClients returns every Ready client in configuration order.
func (b *Bridge) AllClients() []interfaces.LanguageClient {
	var ready []interfaces.LanguageClient
	for _, client := range b.clients {
		if client.State() == lsp.StateReady {
			ready = append(ready, client)
		}
	}
	return ready
}

// AllConfiguredExtensions returns the extensions declared for every
// configured peer, running or not, deduplicated by tool name. The MCP tool
// list is built from this up front.
func (b *Bridge) AllConfiguredExtensions() []extensions.Extension {
	seen := make(map[string]bool)
	var result []extensions.Extension

	for _, client := range b.clients {
		for _, ext := range extensions.ForCommand(client.Config().Command) {
			if seen[ext.ToolName] {
				continue
			}
			seen[ext.ToolName] = true
			result = append(result, ext)
		}
	}

	return result
}

// ClientForExtensionTool finds a Ready client whose command registers the
// given extension tool. The tool may be advertised while no peer serves it
// yet; callers get false in that case.
func (b *Bridge) ClientForExtensionTool(toolName string) (interfaces.LanguageClient, bool) {
	for _, client := range b.clients {
		if client.State() != lsp.StateReady {
			continue
		}
		for _, ext := range extensions.ForCommand(client.Config().Command) {
			if ext.ToolName == toolName {
				return client, true
			}
		}
	}
	return nil, false
}

// AttachWatcher wires a document watcher into every client's open/close
// path and registers it for shutdown.
func (b *Bridge) AttachWatcher(watcher DocumentWatcher) {
	b.watcher = watcher
	for _, client := range b.clients {
		client.SetObserver(&watcherObserver{watcher: watcher})
	}
}

type watcherObserver struct {
	watcher DocumentWatcher
}

func (o *watcherObserver) DocumentOpened(path string) {
	o.watcher.Watch(path)
}

func (o *watcherObserver) DocumentClosed(path string) {
	o.watcher.Unwatch(path)
}

// ResyncDocument pushes the on-disk content of a changed file to every
// Ready client that has it open. A vanished file is closed instead.
func (b *Bridge) ResyncDocument(path string, read func(string) ([]byte, error)) {
	for _, client := range b.clients {
		if client.State() != lsp.StateReady || !client.IsOpen(path) {
			continue
		}

		text, err := read(path)
		if err != nil {
			logger.Debugw("closing vanished document", "server", client.Name(), "path", path)
			_ = client.NotifyClose(path)
			continue
		}

		if err := client.NotifyChange(path, string(text)); err != nil {
			logger.Debugw("resync change failed", "server", client.Name(), "path", path, "error", err)
			continue
		}
		if err := client.NotifySave(path); err != nil {
			logger.Debugw("resync save failed", "server", client.Name(), "path", path, "error", err)
		}
	}
}

// ShutdownAll shuts down every client concurrently and waits for all of
// them. Per-peer failures never propagate.
func (b *Bridge) ShutdownAll() {
	if b.watcher != nil {
		b.watcher.Stop()
	}

	ops := make([]func() (struct{}, error), len(b.clients))
	for i, client := range b.clients {
		c := client
		ops[i] = func() (struct{}, error) {
			c.Shutdown()
			return struct{}{}, nil
		}
	}

	if _, err := async.Map(context.Background(), ops); err != nil {
		logger.Warnw("shutdown fan-out interrupted", "error", err)
	}
}
