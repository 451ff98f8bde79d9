// Package sqlite persists processed documents and their embedded
// chunks.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO. The schema is managed through versioned
// migrations embedded from the migrations/ directory, and the database
// runs in WAL mode so the pipeline goroutine and readers do not block
// each other.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and if necessary creates) the store at the given data
// directory. If dataDir is empty, defaults to ~/.zkrag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".zkrag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UpsertDocument stores a processed document with its embedded chunks.
// The path identifies the document: a repeated upsert for the same path
// replaces the document row and its chunks in one transaction.
func (s *Store) UpsertDocument(ctx context.Context, doc *domain.ProcessedDocument, chunks []domain.EmbeddedChunk) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// A re-processed path carries a fresh document ID: clear the
	// previous row's chunks before the path conflict rewrites the ID
	// they reference.
	var previousID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE path = ?", doc.Metadata.File.Path,
	).Scan(&previousID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("querying existing document: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", previousID); err != nil {
			return fmt.Errorf("clearing chunks: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, path, raw_content, processed_content, content_hash, metadata, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			raw_content = excluded.raw_content,
			processed_content = excluded.processed_content,
			content_hash = excluded.content_hash,
			metadata = excluded.metadata,
			processed_at = excluded.processed_at
	`, doc.ID, doc.Metadata.File.Path, doc.RawContent, doc.ProcessedContent,
		doc.ContentHash, string(metadataJSON), doc.ProcessedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, content_hash, position, start_line, end_line, word_count, embedding, embedding_model, embedded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.ContentHash, chunk.Index, chunk.StartLine, chunk.EndLine, chunk.WordCount,
			float32SliceToBytes(chunk.Embedding), chunk.EmbeddingModel, chunk.EmbeddedAt); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RemoveByPath deletes the document stored for the given path along
// with its chunks. Removing an unknown path is not an error.
func (s *Store) RemoveByPath(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// GetDocumentByPath retrieves the stored document for a path.
func (s *Store) GetDocumentByPath(ctx context.Context, path string) (*domain.ProcessedDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, raw_content, processed_content, content_hash, metadata, processed_at
		FROM documents WHERE path = ?
	`, path)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all stored documents, ordered by path.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.ProcessedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, raw_content, processed_content, content_hash, metadata, processed_at
		FROM documents ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.ProcessedDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// GetChunks retrieves the stored chunks for a document, in position
// order.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.EmbeddedChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, content_hash, position, start_line, end_line, word_count, embedding, embedding_model, embedded_at
		FROM chunks WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.EmbeddedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.EmbeddedChunk
		var embedding []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.ContentHash,
			&chunk.Index, &chunk.StartLine, &chunk.EndLine, &chunk.WordCount,
			&embedding, &chunk.EmbeddingModel, &chunk.EmbeddedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embedding)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// scanner abstracts sql.Row and sql.Rows for scanDocument.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.ProcessedDocument, error) {
	var doc domain.ProcessedDocument
	var metadataJSON string
	if err := row.Scan(&doc.ID, &doc.RawContent, &doc.ProcessedContent,
		&doc.ContentHash, &metadataJSON, &doc.ProcessedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return &doc, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
