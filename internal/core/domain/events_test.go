package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileEventType_IsValid(t *testing.T) {
	valid := []FileEventType{FileCreated, FileModified, FileDeleted, FileExisting, FileManual}
	for _, et := range valid {
		t.Run(string(et), func(t *testing.T) {
			assert.True(t, et.IsValid())
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		assert.False(t, FileEventType("renamed").IsValid())
	})

	t.Run("empty type", func(t *testing.T) {
		assert.False(t, FileEventType("").IsValid())
	})
}

func TestFileEventType_IsRemoval(t *testing.T) {
	assert.True(t, FileDeleted.IsRemoval())
	assert.False(t, FileCreated.IsRemoval())
	assert.False(t, FileModified.IsRemoval())
	assert.False(t, FileExisting.IsRemoval())
	assert.False(t, FileManual.IsRemoval())
}

func TestNewFileEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewFileEvent("notes/a.md", FileCreated)
	after := time.Now().UTC()

	assert.Equal(t, "notes/a.md", event.Path)
	assert.Equal(t, FileCreated, event.Type)
	assert.False(t, event.Timestamp.Before(before))
	assert.False(t, event.Timestamp.After(after))
}
