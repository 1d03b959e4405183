package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resyncRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *resyncRecorder) resync(path string, read func(string) ([]byte, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths = append(r.paths, path)
}

func (r *resyncRecorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestWatcherResyncsOnWrite(t *testing.T) {
	recorder := &resyncRecorder{}

	w, err := New(recorder.resync)
	require.NoError(t, err)
	defer w.Stop()

	path := filepath.Join(t.TempDir(), "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w.Watch(path)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	assert.Eventually(t, func() bool {
		return recorder.seen(path)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresUnwatchedPaths(t *testing.T) {
	recorder := &resyncRecorder{}

	w, err := New(recorder.resync)
	require.NoError(t, err)
	defer w.Stop()

	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.ts")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0o644))

	w.Watch(watched)
	w.Unwatch(watched)

	require.NoError(t, os.WriteFile(watched, []byte("v2"), 0o644))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, recorder.seen(watched))
}

func TestWatcherWatchMissingFile(t *testing.T) {
	w, err := New((&resyncRecorder{}).resync)
	require.NoError(t, err)
	defer w.Stop()

	// Watching a nonexistent path is logged, not fatal.
	assert.NotPanics(t, func() {
		w.Watch(filepath.Join(t.TempDir(), "missing.ts"))
	})
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := New((&resyncRecorder{}).resync)
	require.NoError(t, err)

	w.Stop()
	assert.NotPanics(t, w.Stop)
}
