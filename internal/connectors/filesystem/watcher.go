// Package filesystem provides the filesystem implementation of the
// source watcher port. It observes a directory tree recursively with
// fsnotify and emits typed file events for matching documents.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// Watcher observes a root directory for markdown file changes.
type Watcher struct {
	rootPath   string
	extensions map[string]bool

	mu      sync.Mutex
	running bool
	fs      *fsnotify.Watcher
	done    chan struct{}
}

// New creates a watcher for the given root. Extensions defaults to
// domain.DefaultExtensions when empty.
func New(rootPath string, extensions []string) *Watcher {
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	return &Watcher{
		rootPath:   rootPath,
		extensions: extSet,
	}
}

// RootPath returns the watched directory.
func (w *Watcher) RootPath() string {
	return w.rootPath
}

// Start begins watching the directory tree. A second call while already
// running logs a warning and returns without effect. Fails fast when the
// root does not exist.
func (w *Watcher) Start(callback driven.FileEventCallback) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		logger.Warn("File watcher is already running")
		return nil
	}

	info, err := os.Stat(w.rootPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrWatchDirMissing, w.rootPath)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// fsnotify watches are not recursive: register every directory in
	// the tree, and add new directories as they appear.
	if err := addDirsRecursive(fs, w.rootPath); err != nil {
		fs.Close()
		return fmt.Errorf("register watch tree: %w", err)
	}

	w.fs = fs
	w.done = make(chan struct{})
	w.running = true

	go w.deliverEvents(callback)

	logger.Info("Started watching directory: %s", w.rootPath)
	return nil
}

// Stop releases the OS watch handle and blocks until the delivery
// goroutine has fully exited. Safe to call when not running.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	if err := w.fs.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	<-w.done

	w.fs = nil
	w.running = false
	logger.Info("Stopped file watcher")
	return nil
}

// ScanExistingFiles walks the tree once and emits one existing-typed
// event per matching file, used for the initial backfill.
func (w *Watcher) ScanExistingFiles(callback driven.FileEventCallback) error {
	logger.Info("Scanning for existing markdown files in: %s", w.rootPath)

	return filepath.WalkDir(w.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.rootPath && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) || !w.matches(path) {
			return nil
		}

		logger.Debug("Found existing markdown file: %s", path)
		callback(path, domain.FileExisting)
		return nil
	})
}

// deliverEvents pumps fsnotify events to the callback until the watch
// handle is closed.
func (w *Watcher) deliverEvents(callback driven.FileEventCallback) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if path, eventType, ok := w.handleFsEvent(event); ok {
				callback(path, eventType)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// handleFsEvent maps one fsnotify event to a file event. Directory
// creations grow the watch tree instead of producing an event.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, domain.FileEventType, bool) {
	if isHidden(filepath.Base(event.Name)) {
		return "", "", false
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(event.Name); err != nil {
				logger.Error("Failed to watch new directory %s: %v", event.Name, err)
			}
			return "", "", false
		}
	}

	if !w.matches(event.Name) {
		return "", "", false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		logger.Info("New markdown file detected: %s", event.Name)
		return event.Name, domain.FileCreated, true
	case event.Op.Has(fsnotify.Write):
		logger.Info("Markdown file modified: %s", event.Name)
		return event.Name, domain.FileModified, true
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		logger.Info("Markdown file deleted: %s", event.Name)
		return event.Name, domain.FileDeleted, true
	default:
		// Chmod and other operations are not content changes.
		return "", "", false
	}
}

// matches reports whether the path carries a configured extension.
func (w *Watcher) matches(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// addDirsRecursive registers path and every non-hidden subdirectory.
func addDirsRecursive(fs *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return fs.Add(path)
	})
}

// isHidden reports whether a path element is a dotfile. "." and ".."
// are not considered hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
