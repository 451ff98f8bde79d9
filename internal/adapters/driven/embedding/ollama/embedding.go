// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 1536

	// progressInterval is how many completed items pass between batch
	// progress log lines.
	progressInterval = 10
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size, used for the zero-vector
	// fallback when a call fails (default: 1536).
	Dimensions int

	// MaxConcurrent bounds parallel embedding calls within a batch.
	// Zero or one keeps calls sequential, which makes provider-side
	// rate limits predictable.
	MaxConcurrent int
}

// EmbeddingService generates embeddings using Ollama. A failed call for
// a single text never fails the batch: the item is logged and replaced
// with a zero vector of the configured dimensionality.
type EmbeddingService struct {
	client        *http.Client
	baseURL       string
	model         string
	dimensions    int
	maxConcurrent int
	closeOnce     sync.Once
}

// embedRequest is the Ollama API request format.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the Ollama API response format.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		dimensions:    cfg.Dimensions,
		maxConcurrent: cfg.MaxConcurrent,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	reqBody := embedRequest{
		Model:  s.model,
		Prompt: text,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return domain.Embedding{}, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return domain.Embedding{}, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return domain.Embedding{}, fmt.Errorf("decode response: %w", err)
	}

	if len(embedResp.Embedding) == 0 {
		return domain.Embedding{}, fmt.Errorf("no embedding returned for model %s", s.model)
	}

	// Convert float64 to float32
	vector := make([]float32, len(embedResp.Embedding))
	for i, v := range embedResp.Embedding {
		vector[i] = float32(v)
	}

	logger.Debug("Generated embedding of length %d", len(vector))
	return domain.Embedding{
		Vector:    vector,
		Model:     s.model,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EmbedBatch generates one embedding per input text, same length and
// order. Per-item failures are logged and substituted with zero vectors;
// the batch as a whole always completes.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) []domain.Embedding {
	if s.maxConcurrent > 1 {
		return s.embedBatchConcurrent(ctx, texts)
	}

	embeddings := make([]domain.Embedding, len(texts))
	for i, text := range texts {
		embeddings[i] = s.embedWithFallback(ctx, i, text)

		if (i+1)%progressInterval == 0 {
			logger.Info("Processed %d/%d embeddings", i+1, len(texts))
		}
	}
	return embeddings
}

// embedBatchConcurrent is the bounded-parallel variant. It preserves
// input order and per-item failure isolation.
func (s *EmbeddingService) embedBatchConcurrent(ctx context.Context, texts []string) []domain.Embedding {
	embeddings := make([]domain.Embedding, len(texts))
	sem := semaphore.NewWeighted(int64(s.maxConcurrent))

	var wg sync.WaitGroup
	for i, text := range texts {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: zero-fill the remaining items.
			embeddings[i] = domain.ZeroEmbedding(s.dimensions, s.model)
			continue
		}

		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer sem.Release(1)
			embeddings[i] = s.embedWithFallback(ctx, i, text)
		}(i, text)
	}
	wg.Wait()

	logger.Info("Processed %d/%d embeddings", len(texts), len(texts))
	return embeddings
}

// embedWithFallback embeds one text, substituting a zero vector on any
// failure.
func (s *EmbeddingService) embedWithFallback(ctx context.Context, index int, text string) domain.Embedding {
	embedding, err := s.Embed(ctx, text)
	if err != nil {
		logger.Error("Error embedding text %d: %v", index, err)
		return domain.ZeroEmbedding(s.dimensions, s.model)
	}
	return embedding
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases the underlying HTTP connection pool. Safe to call more
// than once.
func (s *EmbeddingService) Close() error {
	s.closeOnce.Do(func() {
		s.client.CloseIdleConnections()
	})
	return nil
}
