package lsp

import (
	"sync"
	"testing"
	"time"

	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diag(message string) protocol.Diagnostic {
	return protocol.Diagnostic{Message: message}
}

func TestWaitForDiagnosticsFreshCache(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	published := []protocol.Diagnostic{diag("unused variable")}
	client.publishDiagnostics("file:///proj/a.ts", published)

	start := time.Now()
	result := client.WaitForDiagnostics("file:///proj/a.ts", 5*time.Second)

	assert.Equal(t, published, result)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "fresh cache must not block")
}

func TestWaitForDiagnosticsRendezvous(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	published := []protocol.Diagnostic{diag("type mismatch")}

	done := make(chan []protocol.Diagnostic)
	go func() {
		done <- client.WaitForDiagnostics("file:///proj/a.ts", 5*time.Second)
	}()

	// Give the waiter time to register before publishing.
	require.Eventually(t, func() bool {
		return client.pendingWaiters("file:///proj/a.ts") == 1
	}, time.Second, 5*time.Millisecond)

	client.publishDiagnostics("file:///proj/a.ts", published)

	assert.Equal(t, published, <-done)
	assert.Zero(t, client.pendingWaiters("file:///proj/a.ts"))
}

func TestWaitForDiagnosticsMultipleWaitersResolveTogether(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	published := []protocol.Diagnostic{diag("boom")}

	var wg sync.WaitGroup
	results := make([][]protocol.Diagnostic, 3)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = client.WaitForDiagnostics("file:///proj/a.ts", 5*time.Second)
		}(i)
	}

	require.Eventually(t, func() bool {
		return client.pendingWaiters("file:///proj/a.ts") == 3
	}, time.Second, 5*time.Millisecond)

	client.publishDiagnostics("file:///proj/a.ts", published)
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, published, result)
	}
	assert.Zero(t, client.pendingWaiters("file:///proj/a.ts"))
}

func TestWaitForDiagnosticsTimeoutReturnsStaleCache(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	stale := []protocol.Diagnostic{}
	client.diagMu.Lock()
	client.diagCache["file:///proj/a.ts"] = &CachedDiagnostics{
		Diagnostics: stale,
		ReceivedAt:  time.Now().Add(-2 * time.Second),
	}
	client.diagMu.Unlock()

	result := client.WaitForDiagnostics("file:///proj/a.ts", 50*time.Millisecond)

	assert.Equal(t, stale, result)
	assert.Zero(t, client.pendingWaiters("file:///proj/a.ts"), "no waiter may remain after timeout")
}

func TestWaitForDiagnosticsTimeoutWithoutCache(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	result := client.WaitForDiagnostics("file:///proj/a.ts", 50*time.Millisecond)

	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Zero(t, client.pendingWaiters("file:///proj/a.ts"))
}

func TestPublishOverwritesCache(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	client.publishDiagnostics("file:///proj/a.ts", []protocol.Diagnostic{diag("old")})
	client.publishDiagnostics("file:///proj/a.ts", []protocol.Diagnostic{diag("new")})

	cached := client.CachedDiagnosticsFor("file:///proj/a.ts")
	require.Len(t, cached, 1)
	assert.Equal(t, "new", cached[0].Message)
}

func TestAllCachedDiagnosticsSkipsEmptyBatches(t *testing.T) {
	client, _ := newReadyClient(t, tsConfig(), "/proj")

	client.publishDiagnostics("file:///proj/a.ts", []protocol.Diagnostic{diag("x")})
	client.publishDiagnostics("file:///proj/b.ts", []protocol.Diagnostic{})

	all := client.AllCachedDiagnostics()
	assert.Len(t, all, 1)
	assert.Contains(t, all, "file:///proj/a.ts")
}
