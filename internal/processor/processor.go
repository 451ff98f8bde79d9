// Package processor reads markdown documents, extracts filesystem and
// frontmatter metadata, cleans content and computes the content hash that
// serves as a document's identity for idempotent upserts.
package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// Processor turns raw markdown files into ProcessedDocuments.
type Processor struct{}

// New creates a document processor.
func New() *Processor {
	return &Processor{}
}

// Process reads the file at path and processes its content. Fails with
// domain.ErrFileUnreadable when the path cannot be read and with
// domain.ErrInvalidEncoding when the content is not valid UTF-8.
func (p *Processor) Process(path string) (*domain.ProcessedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFileUnreadable, path, err)
	}

	fileMeta, err := extractFileMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFileUnreadable, path, err)
	}

	return p.ProcessContent(path, content, fileMeta)
}

// ProcessContent processes document content that is already in memory,
// using the provided file metadata snapshot. The webhook flow uses this
// entry point with repo-fetched bytes and synthetic metadata.
func (p *Processor) ProcessContent(path string, content []byte, fileMeta domain.FileMetadata) (*domain.ProcessedDocument, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEncoding, path)
	}

	raw := string(content)
	parsed := parseMarkdown(raw)

	frontmatter := normaliseMetadata(parsed.metadata, raw)
	if frontmatter.Title == "" {
		frontmatter.Title = firstHeading(parsed.body)
	}

	doc := &domain.ProcessedDocument{
		ID: uuid.New().String(),
		Metadata: domain.DocumentMetadata{
			File:        fileMeta,
			Frontmatter: frontmatter,
		},
		RawContent:       raw,
		ProcessedContent: parsed.body,
		ContentHash:      domain.HashContent(parsed.body),
		ProcessedAt:      time.Now().UTC(),
	}

	logger.Info("Processed document: %s", fileMeta.Name)
	return doc, nil
}

// SyntheticFileMetadata builds a file metadata snapshot for content that
// did not come from the local filesystem, keyed by its repository path.
func SyntheticFileMetadata(path string, size int) domain.FileMetadata {
	now := time.Now().UTC()
	return domain.FileMetadata{
		Path:       path,
		Name:       filepath.Base(path),
		Extension:  strings.ToLower(filepath.Ext(path)),
		Size:       int64(size),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// extractFileMetadata snapshots the filesystem state of a path.
func extractFileMetadata(path string) (domain.FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileMetadata{}, err
	}

	// File creation time is not portable across platforms; the
	// modification time stands in for both timestamps.
	return domain.FileMetadata{
		Path:       path,
		Name:       info.Name(),
		Extension:  strings.ToLower(filepath.Ext(path)),
		Size:       info.Size(),
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// firstHeading returns the text of the first H1 heading, or "".
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}
