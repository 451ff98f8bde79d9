package driven

import (
	"context"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// DocumentStore is the storage collaborator at the pipeline boundary.
// The pipeline hands it finished units of work; it does not manage
// transactions or retries beyond these two operations.
type DocumentStore interface {
	// UpsertDocument stores a processed document with its embedded
	// chunks. The write is idempotent by document identity (path and
	// content hash): a repeated upsert for the same identity updates in
	// place instead of inserting.
	UpsertDocument(ctx context.Context, doc *domain.ProcessedDocument, chunks []domain.EmbeddedChunk) error

	// RemoveByPath deletes the document stored for the given path along
	// with its chunks. Removing an unknown path is not an error.
	RemoveByPath(ctx context.Context, path string) error

	// GetDocumentByPath retrieves the stored document for a path.
	// Returns domain.ErrNotFound when no document exists.
	GetDocumentByPath(ctx context.Context, path string) (*domain.ProcessedDocument, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.ProcessedDocument, error)

	// Close releases storage resources.
	Close() error
}
