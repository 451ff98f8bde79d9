package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

func testDocument(path, content string) *domain.ProcessedDocument {
	return &domain.ProcessedDocument{
		ID: uuid.New().String(),
		Metadata: domain.DocumentMetadata{
			File: domain.FileMetadata{Path: path},
		},
		ProcessedContent: content,
		ContentHash:      domain.HashContent(content),
	}
}

func TestDocumentStore_UpsertDocument(t *testing.T) {
	t.Run("stores and retrieves by path", func(t *testing.T) {
		store := NewDocumentStore()
		ctx := context.Background()

		doc := testDocument("/notes/a.md", "content")
		chunks := []domain.EmbeddedChunk{{
			Chunk:     domain.Chunk{ID: uuid.New().String(), DocumentID: doc.ID, Content: "content"},
			Embedding: []float32{1, 2, 3},
		}}
		require.NoError(t, store.UpsertDocument(ctx, doc, chunks))

		got, err := store.GetDocumentByPath(ctx, "/notes/a.md")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, got.ID)
		assert.Len(t, store.GetChunks(ctx, "/notes/a.md"), 1)
	})

	t.Run("replaces a previous entry for the same path", func(t *testing.T) {
		store := NewDocumentStore()
		ctx := context.Background()

		first := testDocument("/notes/a.md", "first")
		require.NoError(t, store.UpsertDocument(ctx, first, []domain.EmbeddedChunk{{}, {}}))

		second := testDocument("/notes/a.md", "second")
		require.NoError(t, store.UpsertDocument(ctx, second, []domain.EmbeddedChunk{{}}))

		got, err := store.GetDocumentByPath(ctx, "/notes/a.md")
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
		assert.Len(t, store.GetChunks(ctx, "/notes/a.md"), 1)

		docs, err := store.ListDocuments(ctx)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestDocumentStore_RemoveByPath(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, testDocument("/notes/a.md", "a"), nil))
	require.NoError(t, store.RemoveByPath(ctx, "/notes/a.md"))

	_, err := store.GetDocumentByPath(ctx, "/notes/a.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Unknown paths are fine.
	assert.NoError(t, store.RemoveByPath(ctx, "/notes/never-existed.md"))
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDocument(ctx, testDocument("/notes/c.md", "c"), nil))
	require.NoError(t, store.UpsertDocument(ctx, testDocument("/notes/a.md", "a"), nil))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/notes/a.md", docs[0].Metadata.File.Path)
	assert.Equal(t, "/notes/c.md", docs[1].Metadata.File.Path)
}
