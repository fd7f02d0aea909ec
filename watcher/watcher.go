// Package watcher provides recursive filesystem watching with debouncing,
// used to keep the file index fresh between incremental update passes.
package watcher

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// IgnoreChecker filters watched paths.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Watcher watches multiple root directories recursively and emits debounced
// change events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	ignore    IgnoreChecker
	logger    *slog.Logger
}

// New creates a watcher over the given roots, registering every non-ignored
// subdirectory. Directories that cannot be registered are logged and skipped.
func New(roots []string, ignore IgnoreChecker, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(100 * time.Millisecond),
		ignore:    ignore,
		logger:    logger,
	}

	for _, root := range roots {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.ignore != nil && w.ignore.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if watchErr := fsWatcher.Add(path); watchErr != nil {
				w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
			}
			return nil
		})
	}

	return w, nil
}

// Events returns the channel receiving debounced event batches.
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Start listens for filesystem events until the watcher is closed.
// Call it in a goroutine.
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

	// New directories join the watch set; their creation is not an event.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.ignore == nil || !w.ignore.ShouldIgnoreDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if w.ignore != nil && w.ignore.ShouldIgnore(path) {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
