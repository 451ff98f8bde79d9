package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FileMetadata is a snapshot of the filesystem state of a document at
// processing time. It is never updated in place; the next processing pass
// over the same path produces a fresh snapshot.
type FileMetadata struct {
	// Path is the absolute or source-relative location of the file.
	Path string

	// Name is the base name of the file.
	Name string

	// Extension is the lower-cased file extension, including the dot.
	Extension string

	// Size is the file size in bytes.
	Size int64

	// CreatedAt is the filesystem creation (change) time.
	CreatedAt time.Time

	// ModifiedAt is the filesystem modification time.
	ModifiedAt time.Time
}

// FrontmatterMetadata is the fixed-shape view of a document's leading
// key-value block. Keys that can appear as either a scalar or a list in
// source documents (author, category, type, tags) are always normalised
// to lists; all other values are coerced to strings. A nil slice or empty
// string means the key was absent.
type FrontmatterMetadata struct {
	Title       string
	Author      []string
	Category    []string
	Type        []string
	Tags        []string
	Source      string
	Description string
	CreatedOn   string
	LastUpdated string
}

// DocumentMetadata groups the two metadata sources for a document.
type DocumentMetadata struct {
	File        FileMetadata
	Frontmatter FrontmatterMetadata
}

// ProcessedDocument is a markdown document after frontmatter extraction
// and content cleaning. ContentHash is the SHA-256 hex digest of
// ProcessedContent and serves as the document's identity key for
// idempotent upserts.
type ProcessedDocument struct {
	ID               string
	Metadata         DocumentMetadata
	RawContent       string
	ProcessedContent string
	ContentHash      string
	ProcessedAt      time.Time
}

// Title returns the best available title for the document: frontmatter
// first, then the file name.
func (d *ProcessedDocument) Title() string {
	if d.Metadata.Frontmatter.Title != "" {
		return d.Metadata.Frontmatter.Title
	}
	return d.Metadata.File.Name
}

// Chunk is a contiguous, size-bounded slice of a document's cleaned text.
// Chunks are ordered by Index (0-based) and cover the source document's
// lines contiguously; adjacent chunks share trailing/leading lines when
// chunking is configured with an overlap.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent ProcessedDocument.
	DocumentID string

	// Content is the exact chunk text.
	Content string

	// ContentHash is the SHA-256 hex digest of Content.
	ContentHash string

	// Index is the ordinal position within the document.
	Index int

	// StartLine and EndLine are 0-based line offsets into the cleaned
	// document text, inclusive on both ends.
	StartLine int
	EndLine   int

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int
}

// EmbeddedChunk is a Chunk paired with its vector embedding. A failed
// embedding call still yields an EmbeddedChunk carrying a zero vector,
// so a batch of embedded chunks always has one entry per input chunk.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the vector representation of Content. All-zero when
	// the provider call for this chunk failed.
	Embedding []float32

	// EmbeddingModel is the model that produced (or was meant to produce)
	// the vector.
	EmbeddingModel string

	// EmbeddedAt is when the vector was created.
	EmbeddedAt time.Time
}

// IsZeroVector reports whether the embedding is the degenerate fallback
// produced for a failed provider call.
func (c *EmbeddedChunk) IsZeroVector() bool {
	for _, v := range c.Embedding {
		if v != 0 {
			return false
		}
	}
	return len(c.Embedding) > 0
}

// HashContent returns the SHA-256 hex digest of the given text. The same
// text always yields the same digest; this is the identity function used
// for both documents and chunks.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
