package driven

import "github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"

// FileEventCallback receives one file change at a time from a watcher.
// Implementations must not block for long: the watcher invokes the
// callback on its event-delivery goroutine.
type FileEventCallback func(path string, eventType domain.FileEventType)

// SourceWatcher observes a document source and reports file changes.
// The filesystem implementation watches a directory tree; alternate
// sources (e.g. a cloud-storage change feed) can satisfy the same
// contract.
type SourceWatcher interface {
	// Start begins delivering change events to the callback. A second
	// call while running is a logged no-op. Fails fast when the watched
	// root does not exist.
	Start(callback FileEventCallback) error

	// Stop releases the underlying watch handle and blocks until the
	// delivery goroutine has exited. Safe to call when not running.
	Stop() error

	// ScanExistingFiles walks the source once and emits one
	// domain.FileExisting event per matching file. Used for the initial
	// backfill.
	ScanExistingFiles(callback FileEventCallback) error
}
