package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() PipelineConfig {
	return PipelineConfig{
		WatchDirectory: "/tmp/notes",
		ChunkSize:      1000,
		ChunkOverlap:   200,
	}
}

func TestPipelineConfig_Validate(t *testing.T) {
	t.Run("accepts valid config", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects missing watch directory", func(t *testing.T) {
		cfg := validConfig()
		cfg.WatchDirectory = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})

	t.Run("rejects chunk size below minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.ChunkSize = 50
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})

	t.Run("rejects chunk size above maximum", func(t *testing.T) {
		cfg := validConfig()
		cfg.ChunkSize = 20000
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})

	t.Run("rejects overlap above maximum", func(t *testing.T) {
		cfg := validConfig()
		cfg.ChunkSize = 10000
		cfg.ChunkOverlap = 2500
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})

	t.Run("rejects overlap equal to chunk size", func(t *testing.T) {
		cfg := validConfig()
		cfg.ChunkSize = 500
		cfg.ChunkOverlap = 500
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})

	t.Run("rejects negative concurrency", func(t *testing.T) {
		cfg := validConfig()
		cfg.MaxConcurrentEmbeds = -1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
	})
}

func TestPipelineConfig_ApplyDefaults(t *testing.T) {
	cfg := PipelineConfig{WatchDirectory: "/tmp/notes"}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.ChunkOverlap)
	assert.Equal(t, DefaultQueueSize, cfg.QueueSize)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)

	t.Run("does not override explicit values", func(t *testing.T) {
		cfg := PipelineConfig{
			WatchDirectory: "/tmp/notes",
			ChunkSize:      500,
			ChunkOverlap:   50,
			Extensions:     []string{".txt"},
		}
		cfg.ApplyDefaults()
		assert.Equal(t, 500, cfg.ChunkSize)
		assert.Equal(t, 50, cfg.ChunkOverlap)
		assert.Equal(t, []string{".txt"}, cfg.Extensions)
	})
}
