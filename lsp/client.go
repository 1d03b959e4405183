package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"codemux/lspmux/logger"
	"codemux/lspmux/utils"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	initializeTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewClient builds a client for one configured peer. The subprocess is not
// spawned until Start; glob patterns are compiled here, exactly once.
func NewClient(config ServerConfig, projectRoot string) (*Client, error) {
	matchers := make([]glob.Glob, 0, len(config.FilePatterns))

	for _, pattern := range config.FilePatterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "server %q: invalid file pattern %q", config.Name, pattern)
		}
		matchers = append(matchers, matcher)
	}

	return &Client{
		name:        config.Name,
		config:      config,
		projectRoot: projectRoot,
		matchers:    matchers,
		state:       StateIdle,
		docs:        make(map[string]*Document),
		diagCache:   make(map[string]*CachedDiagnostics),
		diagWaiters: make(map[string][]chan []protocol.Diagnostic),
	}, nil
}

// Name returns the configured peer name.
func (c *Client) Name() string {
	return c.name
}

// Config returns the peer configuration.
func (c *Client) Config() ServerConfig {
	return c.config
}

// State returns the current lifecycle state.
func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Matches reports whether any of the peer's file patterns match the given
// project-relative path. Patterns like **/*.ts carry a separator, so the
// root-anchored absolute form is tried as well; that way they also cover
// files directly under the project root.
func (c *Client) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	absPath := filepath.ToSlash(filepath.Join(c.projectRoot, relPath))

	for _, matcher := range c.matchers {
		if matcher.Match(relPath) || matcher.Match(absPath) {
			return true
		}
	}
	return false
}

// Capabilities returns the server capabilities exactly as the peer reported
// them in the initialize reply.
func (c *Client) Capabilities() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.capabilities
}

// SetObserver installs a document observer. Must be called before the first
// EnsureOpen.
func (c *Client) SetObserver(observer DocumentObserver) {
	c.docMu.Lock()
	defer c.docMu.Unlock()

	c.observer = observer
}

// Start spawns the subprocess and runs the initialize handshake. Starting a
// Ready client is a no-op; starting one that is Starting, Stopping or Dead
// is an error, so a Dead client stays dead.
func (c *Client) Start() error {
	c.mu.Lock()
	switch c.state {
	case StateReady:
		c.mu.Unlock()
		return nil
	case StateStarting, StateStopping:
		c.mu.Unlock()
		return errors.Newf("language server %q is %s", c.name, c.state)
	case StateDead:
		c.mu.Unlock()
		return errors.Newf("language server %q is dead", c.name)
	}
	c.state = StateStarting
	c.mu.Unlock()

	logger.Infow("starting language server", "server", c.name, "command", c.config.Command)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, c.config.Command[0], c.config.Command[1:]...)
	cmd.Dir = c.projectRoot
	cmd.Env = overlayEnv(os.Environ(), c.config.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return c.failStart(errors.Wrapf(err, "server %q: failed to create stdin pipe", c.name))
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return c.failStart(errors.Wrapf(err, "server %q: failed to create stdout pipe", c.name))
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return c.failStart(errors.Wrapf(err, "server %q: failed to create stderr pipe", c.name))
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return c.failStart(errors.Wrapf(err, "server %q: failed to start %q", c.name, c.config.Command[0]))
	}

	rwc := &stdioReadWriteCloser{stdin: stdin, stdout: stdout}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, &clientHandler{client: c})

	c.mu.Lock()
	c.cmd = cmd
	c.ctx = ctx
	c.cancel = cancel
	c.conn = conn
	c.waitDone = make(chan struct{})
	c.mu.Unlock()

	// Forward peer stderr to the log, tagged with the peer name.
	go func() {
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			logger.Debugw("peer stderr", "server", c.name, "line", scanner.Text())
		}
	}()

	go c.watchProcess()

	if err := c.initialize(ctx, conn); err != nil {
		c.markDead()
		return err
	}

	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()

	logger.Infow("language server ready", "server", c.name)

	return nil
}

func (c *Client) failStart(err error) error {
	c.mu.Lock()
	c.state = StateDead
	c.mu.Unlock()

	return err
}

// watchProcess waits for the subprocess to exit and marks the client Dead.
// An exit that was not part of an orderly shutdown is logged and also
// closes the connection.
func (c *Client) watchProcess() {
	err := c.cmd.Wait()

	c.mu.Lock()
	c.waitErr = err
	close(c.waitDone)
	orderly := c.state == StateStopping || c.state == StateDead
	c.state = StateDead
	c.mu.Unlock()

	if !orderly {
		logger.Warnw("language server exited unexpectedly", "server", c.name, "error", err)

		c.mu.Lock()
		conn, cancel := c.conn, c.cancel
		c.mu.Unlock()

		if conn != nil {
			_ = conn.Close()
		}
		if cancel != nil {
			cancel()
		}
	}
}

func (c *Client) initialize(ctx context.Context, conn Connection) error {
	rootUri := c.config.RootUri
	if rootUri == "" {
		rootUri = utils.FilePathToURI(c.projectRoot)
	}

	params := map[string]any{
		"processId": os.Getpid(),
		"clientInfo": map[string]any{
			"name":    "lspmux",
			"version": "0.1.0",
		},
		"rootUri":      rootUri,
		"capabilities": clientCapabilities(),
	}
	if c.config.InitializationOptions != nil {
		params["initializationOptions"] = c.config.InitializationOptions
	}

	callCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	var raw json.RawMessage
	if err := conn.Call(callCtx, "initialize", params, &raw); err != nil {
		return errors.Wrapf(err, "server %q: initialize failed", c.name)
	}

	var result struct {
		Capabilities map[string]any `json:"capabilities"`
		ServerInfo   *struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return errors.Wrapf(err, "server %q: malformed initialize reply", c.name)
	}

	c.mu.Lock()
	c.capabilities = result.Capabilities
	c.mu.Unlock()

	if result.ServerInfo != nil {
		logger.Debugw("peer info", "server", c.name, "peer", result.ServerInfo.Name, "version", result.ServerInfo.Version)
	}

	if err := conn.Notify(ctx, "initialized", protocol.InitializedParams{}); err != nil {
		return errors.Wrapf(err, "server %q: initialized notification failed", c.name)
	}

	return nil
}

// clientCapabilities is the fixed capability set announced to every peer.
func clientCapabilities() map[string]any {
	return map[string]any{
		"textDocument": map[string]any{
			"synchronization": map[string]any{
				"didSave": true,
			},
			"hover": map[string]any{
				"contentFormat": []string{"markdown", "plaintext"},
			},
			"definition":     map[string]any{"linkSupport": false},
			"typeDefinition": map[string]any{"linkSupport": false},
			"implementation": map[string]any{"linkSupport": false},
			"declaration":    map[string]any{"linkSupport": false},
			"references":     map[string]any{},
			"signatureHelp": map[string]any{
				"signatureInformation": map[string]any{
					"documentationFormat": []string{"markdown", "plaintext"},
				},
			},
			"documentSymbol": map[string]any{
				"hierarchicalDocumentSymbolSupport": true,
			},
			"codeAction": map[string]any{},
			"rename": map[string]any{
				"prepareSupport": true,
			},
			"publishDiagnostics": map[string]any{
				"relatedInformation": true,
				"tagSupport": map[string]any{
					"valueSet": []int{1, 2},
				},
			},
			"callHierarchy": map[string]any{},
			"typeHierarchy": map[string]any{},
		},
		"workspace": map[string]any{
			"symbol": map[string]any{},
		},
	}
}

// overlayEnv merges config env entries over the process environment.
func overlayEnv(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return base
	}

	env := make([]string, len(base), len(base)+len(overlay))
	copy(env, base)
	for key, value := range overlay {
		env = append(env, key+"="+value)
	}
	return env
}

// SendRequest sends a request and decodes the reply into result. Requests
// are refused unless the client is Ready.
func (c *Client) SendRequest(method string, params any, result any) error {
	c.mu.Lock()
	conn, ctx, state := c.conn, c.ctx, c.state
	c.mu.Unlock()

	if state != StateReady {
		return errors.Newf("language server %q is not ready (state %s)", c.name, state)
	}

	atomic.AddInt64(&c.totalRequests, 1)

	err := conn.Call(ctx, method, params, result)
	if err != nil {
		atomic.AddInt64(&c.failedRequests, 1)
		logger.Debugw("request failed", "server", c.name, "method", method, "error", err)
		return errors.Wrapf(err, "%s request to %q failed", method, c.name)
	}

	atomic.AddInt64(&c.successfulRequests, 1)

	return nil
}

// SendNotification sends a fire-and-forget notification.
func (c *Client) SendNotification(method string, params any) error {
	c.mu.Lock()
	conn, ctx, state := c.conn, c.ctx, c.state
	c.mu.Unlock()

	if state != StateReady {
		return errors.Newf("language server %q is not ready (state %s)", c.name, state)
	}

	return conn.Notify(ctx, method, params)
}

// Shutdown runs the shutdown/exit handshake bounded by shutdownTimeout,
// then disposes the connection and reaps or kills the subprocess. It never
// reports an error to the caller.
func (c *Client) Shutdown() {
	c.mu.Lock()
	switch c.state {
	case StateDead, StateStopping:
		c.mu.Unlock()
		return
	case StateIdle:
		c.state = StateDead
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	conn, cmd, cancel := c.conn, c.cmd, c.cancel
	c.mu.Unlock()

	logger.Infow("stopping language server", "server", c.name,
		"requests", atomic.LoadInt64(&c.totalRequests),
		"failed", atomic.LoadInt64(&c.failedRequests))

	if conn != nil {
		callCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		var result any
		if err := conn.Call(callCtx, "shutdown", nil, &result); err != nil {
			logger.Debugw("shutdown request failed", "server", c.name, "error", err)
		}
		done()

		if err := conn.Notify(context.Background(), "exit", nil); err != nil {
			logger.Debugw("exit notification failed", "server", c.name, "error", err)
		}

		if err := conn.Close(); err != nil {
			logger.Debugw("connection close failed", "server", c.name, "error", err)
		}
	}

	if cmd != nil && cmd.Process != nil {
		select {
		case <-c.waitDone:
		case <-time.After(shutdownTimeout):
			logger.Warnw("killing unresponsive language server", "server", c.name)
			_ = cmd.Process.Kill()
			<-c.waitDone
		}
	}

	if cancel != nil {
		cancel()
	}

	c.mu.Lock()
	c.state = StateDead
	c.mu.Unlock()
}

// markDead tears down after a failed start.
func (c *Client) markDead() {
	c.mu.Lock()
	conn, cancel := c.conn, c.cancel
	c.state = StateDead
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// Metrics returns a snapshot of the client's request counters.
func (c *Client) Metrics() ClientMetrics {
	c.docMu.Lock()
	openDocs := len(c.docs)
	c.docMu.Unlock()

	return ClientMetrics{
		Server:             c.name,
		State:              c.State(),
		TotalRequests:      atomic.LoadInt64(&c.totalRequests),
		SuccessfulRequests: atomic.LoadInt64(&c.successfulRequests),
		FailedRequests:     atomic.LoadInt64(&c.failedRequests),
		OpenDocuments:      openDocs,
	}
}
