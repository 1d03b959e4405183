package watcher

import (
	"os"
	"sync"

	"codemux/lspmux/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps open documents in sync with their on-disk content. Files
// enter the watch set when a client opens them and leave it when the
// document closes. All failures are logged, never propagated.
type Watcher struct {
	fsw    *fsnotify.Watcher
	resync func(path string, read func(string) ([]byte, error))

	mu    sync.Mutex
	paths map[string]bool

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher feeding changed files into resync.
func New(resync func(path string, read func(string) ([]byte, error))) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		resync: resync,
		paths:  make(map[string]bool),
		done:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Debugw("watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	watched := w.paths[event.Name]
	w.mu.Unlock()

	if !watched {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		logger.Debugw("document changed on disk", "path", event.Name)
		w.resync(event.Name, os.ReadFile)

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		logger.Debugw("document removed on disk", "path", event.Name)
		// Resync observes the read failure and closes the document.
		w.resync(event.Name, os.ReadFile)
		w.Unwatch(event.Name)
	}
}

// Watch adds a file to the watch set.
func (w *Watcher) Watch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.paths[path] {
		return
	}

	if err := w.fsw.Add(path); err != nil {
		logger.Debugw("failed to watch document", "path", path, "error", err)
		return
	}

	w.paths[path] = true
}

// Unwatch removes a file from the watch set.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.paths[path] {
		return
	}

	delete(w.paths, path)

	if err := w.fsw.Remove(path); err != nil {
		logger.Debugw("failed to unwatch document", "path", path, "error", err)
	}
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
	})
}
