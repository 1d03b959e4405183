package lsp

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

// ClientState represents the lifecycle state of a language client
type ClientState int32

const (
	StateIdle ClientState = iota
	StateStarting
	StateReady
	StateStopping
	StateDead
)

func (s ClientState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateStopping:
		return "stopping"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Connection abstracts the jsonrpc2 connection for testability.
type Connection interface {
	Call(ctx context.Context, method string, params, result any, opts ...jsonrpc2.CallOption) error
	Notify(ctx context.Context, method string, params any, opts ...jsonrpc2.CallOption) error
	Reply(ctx context.Context, id jsonrpc2.ID, result any) error
	Close() error
}

// Document is a text document synchronized to a peer.
type Document struct {
	Path       string
	Uri        string
	LanguageID string
	Version    int32
	Text       string
}

// CachedDiagnostics is the last diagnostics batch published for a URI.
// ReceivedAt comes from time.Now, which carries a monotonic clock reading.
type CachedDiagnostics struct {
	Diagnostics []protocol.Diagnostic
	ReceivedAt  time.Time
}

// DocumentObserver is notified when documents are opened or closed, so
// external machinery (the resync watcher) can track the open set.
type DocumentObserver interface {
	DocumentOpened(path string)
	DocumentClosed(path string)
}

// Client owns one language server peer: its subprocess, framed connection,
// capability record, open documents, and diagnostics state.
type Client struct {
	name        string
	config      ServerConfig
	projectRoot string
	matchers    []glob.Glob

	mu     sync.Mutex
	state  ClientState
	cmd    *exec.Cmd
	conn   Connection
	ctx    context.Context
	cancel context.CancelFunc

	// Closed by the wait goroutine when the subprocess exits.
	waitDone chan struct{}
	waitErr  error

	capabilities map[string]any

	docMu    sync.Mutex
	docs     map[string]*Document
	observer DocumentObserver

	diagMu      sync.Mutex
	diagCache   map[string]*CachedDiagnostics
	diagWaiters map[string][]chan []protocol.Diagnostic

	// Metrics
	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
}

// ClientMetrics is a snapshot of a client's request counters.
type ClientMetrics struct {
	Server             string      `json:"server"`
	State              ClientState `json:"state"`
	TotalRequests      int64       `json:"total_requests"`
	SuccessfulRequests int64       `json:"successful_requests"`
	FailedRequests     int64       `json:"failed_requests"`
	OpenDocuments      int         `json:"open_documents"`
}
