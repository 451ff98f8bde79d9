package domain

import "fmt"

// Chunking bounds. Sizes are character-length budgets, not bytes or tokens.
const (
	MinChunkSize = 100
	MaxChunkSize = 10000

	MinChunkOverlap = 0
	MaxChunkOverlap = 2000
)

// Default pipeline configuration values.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultQueueSize    = 256
)

// DefaultExtensions are the file extensions processed by the pipeline.
var DefaultExtensions = []string{".md", ".markdown"}

// PipelineConfig is the configuration surface consumed by the pipeline
// core: where to watch, how to chunk, and how to reach the embedding
// provider.
type PipelineConfig struct {
	// WatchDirectory is the root observed for markdown changes.
	WatchDirectory string

	// OllamaURL is the embedding provider base URL.
	OllamaURL string

	// EmbeddingModel is the provider model name.
	EmbeddingModel string

	// ChunkSize is the character budget per chunk.
	ChunkSize int

	// ChunkOverlap is the character budget carried between adjacent
	// chunks. Must be strictly less than ChunkSize.
	ChunkOverlap int

	// MaxConcurrentEmbeds bounds parallel embedding calls. Zero or one
	// means sequential calls.
	MaxConcurrentEmbeds int

	// QueueSize bounds the processing queue. Enqueueing blocks when the
	// queue is full (backpressure, never dropped events).
	QueueSize int

	// Extensions are the file extensions to process. Defaults to
	// DefaultExtensions when empty.
	Extensions []string
}

// Validate checks the configuration bounds.
func (c *PipelineConfig) Validate() error {
	if c.WatchDirectory == "" {
		return fmt.Errorf("%w: watch directory is required", ErrInvalidInput)
	}
	if c.ChunkSize < MinChunkSize || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d outside [%d, %d]",
			ErrInvalidInput, c.ChunkSize, MinChunkSize, MaxChunkSize)
	}
	if c.ChunkOverlap < MinChunkOverlap || c.ChunkOverlap > MaxChunkOverlap {
		return fmt.Errorf("%w: chunk overlap %d outside [%d, %d]",
			ErrInvalidInput, c.ChunkOverlap, MinChunkOverlap, MaxChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidInput, c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxConcurrentEmbeds < 0 {
		return fmt.Errorf("%w: max concurrent embeds must not be negative", ErrInvalidInput)
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *PipelineConfig) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
}
