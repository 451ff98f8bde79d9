// Package chunker splits cleaned document text into ordered, overlapping,
// hashed chunks. Chunk boundaries are a deterministic function of the
// input text and the size/overlap configuration: re-running on identical
// input always yields byte-identical chunk content and hashes.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// estimatedCharsPerLine converts the character overlap budget into a
// line count when seeding a new chunk from the tail of the previous one.
const estimatedCharsPerLine = 50

// Chunker accumulates whole lines into chunks against a character budget.
// Boundaries never split inside a line.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured character budget per chunk.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap budget in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits content into ordered chunks for the given document.
// Lines are accumulated while they fit the character budget; when a line
// would exceed it, the buffered chunk is closed and the next one is
// seeded with the closed chunk's trailing lines (the line-based overlap).
// A final undersized chunk is always emitted: chunking never drops
// trailing content. Empty input yields a single chunk with empty content
// covering line range 0..0.
func (c *Chunker) Chunk(content, documentID string) []domain.Chunk {
	lines := strings.Split(content, "\n")

	var chunks []domain.Chunk
	var current []string
	currentLength := 0
	startLine := 0

	for i, line := range lines {
		lineLength := len(line) + 1 // +1 for the separating newline

		if currentLength+lineLength > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, c.buildChunk(current, documentID, len(chunks), startLine, i-1))

			if c.overlap > 0 {
				carry := c.overlap / estimatedCharsPerLine
				if carry < 1 {
					carry = 1
				}
				if carry > len(current) {
					carry = len(current)
				}

				overlapLines := current[len(current)-carry:]
				current = append(append([]string(nil), overlapLines...), line)
				currentLength = 0
				for _, l := range current {
					currentLength += len(l) + 1
				}
				startLine = i - len(overlapLines)
			} else {
				current = []string{line}
				currentLength = lineLength
				startLine = i
			}
		} else {
			current = append(current, line)
			currentLength += lineLength
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, c.buildChunk(current, documentID, len(chunks), startLine, len(lines)-1))
	}

	return chunks
}

func (c *Chunker) buildChunk(lines []string, documentID string, index, startLine, endLine int) domain.Chunk {
	text := strings.Join(lines, "\n")
	return domain.Chunk{
		ID:          uuid.New().String(),
		DocumentID:  documentID,
		Content:     text,
		ContentHash: domain.HashContent(text),
		Index:       index,
		StartLine:   startLine,
		EndLine:     endLine,
		WordCount:   len(strings.Fields(text)),
	}
}
