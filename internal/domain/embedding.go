package domain

import "fmt"

// DefaultEmbeddingDimensions is the vector length of the knowledge index.
const DefaultEmbeddingDimensions = 1536

// EmbeddingVector is a point in the vector index keyed by a KnowledgeItem ID.
type EmbeddingVector struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// VectorMatch is one nearest-neighbour hit returned by the vector index.
type VectorMatch struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// ValidateEmbeddingVector checks the ID and that the vector has the expected length.
func ValidateEmbeddingVector(v EmbeddingVector, dimensions int) error {
	if v.ID == "" {
		return fmt.Errorf("embedding vector ID is required")
	}
	if len(v.Values) != dimensions {
		return fmt.Errorf("%w: got %d, expected %d", ErrWrongDimensions, len(v.Values), dimensions)
	}
	return nil
}
