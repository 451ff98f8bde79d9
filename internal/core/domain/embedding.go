package domain

import (
	"math"
	"time"
)

// Embedding is a fixed-length vector produced by the embedding provider,
// stamped with the model and creation time.
type Embedding struct {
	Vector    []float32
	Model     string
	CreatedAt time.Time
}

// ZeroEmbedding returns the deterministic fallback embedding used when a
// provider call fails: an all-zero vector of the given dimensionality.
func ZeroEmbedding(dimensions int, model string) Embedding {
	return Embedding{
		Vector:    make([]float32, dimensions),
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
}

// CosineSimilarity computes the cosine similarity between two embeddings.
// Returns 0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b Embedding) float64 {
	if len(a.Vector) != len(b.Vector) || len(a.Vector) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a.Vector {
		va := float64(a.Vector[i])
		vb := float64(b.Vector[i])
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineSimilarities computes the similarity of a query embedding against
// each candidate, in candidate order.
func CosineSimilarities(query Embedding, candidates []Embedding) []float64 {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = CosineSimilarity(query, c)
	}
	return scores
}
