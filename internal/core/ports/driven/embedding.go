package driven

import (
	"context"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// EmbedBatch generates one embedding per input text, same length and
	// order. It never fails as a whole: a provider failure for a single
	// text is logged and replaced by a zero vector of Dimensions() size.
	EmbedBatch(ctx context.Context, texts []string) []domain.Embedding

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases the underlying HTTP client. Safe to call once;
	// required before process exit.
	Close() error
}
