// Package watcher turns raw filesystem notifications into debounced change
// batches that drive snapshot rebuilds.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/repolens/repolens/ignore"
)

// IgnoreChecker filters which paths the watcher reports.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Watcher follows a directory tree recursively and emits debounced change
// batches. Consumers treat any batch as "the tree changed" and rebuild the
// snapshot, so per-event precision only matters for collapsing noise.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	logger        *slog.Logger
}

// fsnotifyOps maps fsnotify flags to debouncer ops, checked in order.
var fsnotifyOps = []struct {
	flag fsnotify.Op
	op   EventOp
}{
	{fsnotify.Create, OpCreate},
	{fsnotify.Write, OpWrite},
	{fsnotify.Remove, OpRemove},
	{fsnotify.Rename, OpRename},
}

// NewWatcher watches rootDir and every non-ignored directory below it.
func NewWatcher(rootDir string, ignoreChecker IgnoreChecker, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:     fsWatcher,
		debouncer:     NewDebouncer(debounce),
		ignoreChecker: ignoreChecker,
		logger:        logger,
	}
	if err := w.watchTree(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// watchTree registers dir and its non-ignored subdirectories. Unreadable
// entries are skipped rather than failing the walk.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignoreChecker.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if addErr := w.fsWatcher.Add(path); addErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", addErr)
		}
		return nil
	})
}

// Events returns the channel of debounced event batches.
func (w *Watcher) Events() <-chan []DebouncedEvent {
	return w.debouncer.Output()
}

// Start consumes raw notifications until the watcher is closed. Run it in a
// goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.ignoreChecker.ShouldIgnoreDir(path) {
				return
			}
			// Files can land inside the new tree before the watch attaches,
			// so register the whole subtree and report the create itself.
			if err := w.watchTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			w.debouncer.Add(path, OpCreate)
			return
		}
	}

	// Edits to ignore-control files change what the matcher ignores, so they
	// pass through even when currently ignored themselves.
	if !ignore.IsControlFile(filepath.Base(path)) && w.ignoreChecker.ShouldIgnore(path) {
		return
	}

	for _, m := range fsnotifyOps {
		if event.Has(m.flag) {
			w.debouncer.Add(path, m.op)
			return
		}
	}
}

// Close stops the watcher and discards any pending batch.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
