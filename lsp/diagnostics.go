package lsp

import (
	"time"

	"codemux/lspmux/logger"

	"github.com/myleshyson/lsprotocol-go/protocol"
)

const (
	// A cache entry younger than this satisfies a diagnostics wait without
	// touching the peer.
	diagnosticsFreshFor = 500 * time.Millisecond

	// DiagnosticsWaitTimeout bounds a synchronous diagnostics wait.
	DiagnosticsWaitTimeout = 10 * time.Second
)

// publishDiagnostics overwrites the cache entry for the URI and completes
// every waiter registered for it. Cache update and waiter drain happen under
// one lock so a concurrent wait observes either the old state or both.
func (c *Client) publishDiagnostics(uri string, diagnostics []protocol.Diagnostic) {
	c.diagMu.Lock()
	c.diagCache[uri] = &CachedDiagnostics{
		Diagnostics: diagnostics,
		ReceivedAt:  time.Now(),
	}
	waiters := c.diagWaiters[uri]
	delete(c.diagWaiters, uri)
	c.diagMu.Unlock()

	logger.Debugw("diagnostics published", "server", c.name, "uri", uri,
		"count", len(diagnostics), "waiters", len(waiters))

	for _, waiter := range waiters {
		waiter <- diagnostics
	}
}

// WaitForDiagnostics returns the diagnostics for a URI. A fresh cache entry
// is returned immediately; otherwise the call blocks until the next publish
// for the URI or the timeout, whichever comes first. On timeout the cached
// entry (possibly stale, possibly absent) is the answer.
func (c *Client) WaitForDiagnostics(uri string, timeout time.Duration) []protocol.Diagnostic {
	c.diagMu.Lock()

	if cached, ok := c.diagCache[uri]; ok && time.Since(cached.ReceivedAt) < diagnosticsFreshFor {
		c.diagMu.Unlock()
		return cached.Diagnostics
	}

	waiter := make(chan []protocol.Diagnostic, 1)
	c.diagWaiters[uri] = append(c.diagWaiters[uri], waiter)
	c.diagMu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case diagnostics := <-waiter:
		return diagnostics

	case <-timer.C:
		c.diagMu.Lock()
		c.removeWaiterLocked(uri, waiter)

		var fallback []protocol.Diagnostic
		if cached, ok := c.diagCache[uri]; ok {
			fallback = cached.Diagnostics
		}
		c.diagMu.Unlock()

		// A publish may have fulfilled the waiter between the timeout firing
		// and the waiter being deregistered.
		select {
		case diagnostics := <-waiter:
			return diagnostics
		default:
		}

		if fallback == nil {
			fallback = []protocol.Diagnostic{}
		}
		return fallback
	}
}

// removeWaiterLocked drops one waiter from the URI's list. Callers hold
// diagMu.
func (c *Client) removeWaiterLocked(uri string, waiter chan []protocol.Diagnostic) {
	waiters := c.diagWaiters[uri]
	for i, w := range waiters {
		if w == waiter {
			c.diagWaiters[uri] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(c.diagWaiters[uri]) == 0 {
		delete(c.diagWaiters, uri)
	}
}

// AllCachedDiagnostics returns every cached entry with a non-empty
// diagnostics list, keyed by URI.
func (c *Client) AllCachedDiagnostics() map[string][]protocol.Diagnostic {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()

	result := make(map[string][]protocol.Diagnostic)
	for uri, cached := range c.diagCache {
		if len(cached.Diagnostics) > 0 {
			result[uri] = cached.Diagnostics
		}
	}
	return result
}

// CachedDiagnosticsFor returns the cached batch for a URI, or nil.
func (c *Client) CachedDiagnosticsFor(uri string) []protocol.Diagnostic {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()

	if cached, ok := c.diagCache[uri]; ok {
		return cached.Diagnostics
	}
	return nil
}

// pendingWaiters reports how many waiters are registered for a URI.
func (c *Client) pendingWaiters(uri string) int {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()

	return len(c.diagWaiters[uri])
}
