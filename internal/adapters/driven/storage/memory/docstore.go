// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and as a storage-free pipeline mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore,
// keyed by document path.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.ProcessedDocument
	chunks    map[string][]domain.EmbeddedChunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.ProcessedDocument),
		chunks:    make(map[string][]domain.EmbeddedChunk),
	}
}

// UpsertDocument stores a processed document with its embedded chunks,
// replacing any previous entry for the same path.
func (s *DocumentStore) UpsertDocument(_ context.Context, doc *domain.ProcessedDocument, chunks []domain.EmbeddedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := doc.Metadata.File.Path
	s.documents[path] = *doc
	s.chunks[path] = append([]domain.EmbeddedChunk(nil), chunks...)
	return nil
}

// RemoveByPath deletes the document stored for a path. Removing an
// unknown path is not an error.
func (s *DocumentStore) RemoveByPath(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, path)
	delete(s.chunks, path)
	return nil
}

// GetDocumentByPath retrieves the stored document for a path.
func (s *DocumentStore) GetDocumentByPath(_ context.Context, path string) (*domain.ProcessedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all stored documents, ordered by path.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.ProcessedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.documents))
	for path := range s.documents {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	docs := make([]domain.ProcessedDocument, 0, len(paths))
	for _, path := range paths {
		docs = append(docs, s.documents[path])
	}
	return docs, nil
}

// GetChunks retrieves the stored chunks for a path.
func (s *DocumentStore) GetChunks(_ context.Context, path string) []domain.EmbeddedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EmbeddedChunk(nil), s.chunks[path]...)
}

// Close releases nothing; it exists to satisfy the interface.
func (s *DocumentStore) Close() error {
	return nil
}
