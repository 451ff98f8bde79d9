package domain

import "time"

// FileEventType classifies a change observed by a source watcher.
type FileEventType string

// File event types.
const (
	// FileCreated indicates a new file appeared under the watch root.
	FileCreated FileEventType = "created"

	// FileModified indicates an existing file's content changed.
	FileModified FileEventType = "modified"

	// FileDeleted indicates a file was removed or renamed away.
	FileDeleted FileEventType = "deleted"

	// FileExisting indicates a file found by the initial backfill scan.
	FileExisting FileEventType = "existing"

	// FileManual indicates an explicit, caller-triggered processing pass.
	FileManual FileEventType = "manual"
)

// IsValid returns true if the event type is recognised.
func (t FileEventType) IsValid() bool {
	switch t {
	case FileCreated, FileModified, FileDeleted, FileExisting, FileManual:
		return true
	default:
		return false
	}
}

// IsRemoval returns true for event types handled by the deletion flow.
func (t FileEventType) IsRemoval() bool {
	return t == FileDeleted
}

// FileEvent is a single change to a watched file. Events are produced by
// a source watcher (or manual invocation), consumed exactly once by the
// pipeline, and never persisted.
type FileEvent struct {
	Path      string
	Type      FileEventType
	Timestamp time.Time
}

// NewFileEvent creates a file event stamped with the current time.
func NewFileEvent(path string, eventType FileEventType) FileEvent {
	return FileEvent{
		Path:      path,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
