package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a file-backed theme when it or a partial next to it changes.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	theme    *Theme
	onChange func(css string)

	watcher *fsnotify.Watcher
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a watcher for theme.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger, theme: theme}
}

// SetChangeCallback sets the callback invoked with the new CSS. It runs on
// the watcher goroutine.
func (w *Watcher) SetChangeCallback(cb func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Start begins watching. Bundled themes are not watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.theme == nil || w.theme.Bundled() {
		w.logger.Debug("not watching bundled theme")
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.theme.Path)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.running = true
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})

	go w.watch(ctx)

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	stopped := w.stopped
	fw := w.watcher
	w.mu.Unlock()

	<-stopped
	_ = fw.Close()
	w.logger.Debug("theme watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".css" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.check()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

// check reloads the theme. Partials are inlined, so any CSS file in the
// directory can change the result.
func (w *Watcher) check() {
	w.mu.Lock()
	theme := w.theme
	cb := w.onChange
	w.mu.Unlock()

	changed, err := theme.reload(true)
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", theme.Path, "error", err)
		return
	}
	if changed {
		w.logger.Info("theme file changed, reloading", "path", theme.Path)
		if cb != nil {
			cb(theme.CSS)
		}
	}
}
