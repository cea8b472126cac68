package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/everlightos/federation/internal/domain"
)

// Generator produces one completion from a model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, history []domain.Turn) (string, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// KnowledgeStore persists knowledge items in the relational store.
type KnowledgeStore interface {
	Create(ctx context.Context, k *domain.KnowledgeItem) error
	GetByIDs(ctx context.Context, ids []string) ([]*domain.KnowledgeItem, error)
}

// VectorIndex is the similarity index keyed by knowledge item id.
type VectorIndex interface {
	Upsert(ctx context.Context, v domain.EmbeddingVector) error
	Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error)
}

// ObjectStore is the read side of the bucket.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]domain.BucketObject, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	URI(key string) string
}

// ConversationLog records answered chats.
type ConversationLog interface {
	Create(ctx context.Context, c *domain.ConversationRecord) error
}

// ExperimentLog records federation runs.
type ExperimentLog interface {
	Create(ctx context.Context, e *domain.FederationExperiment) error
}

// SearchLog records answered searches.
type SearchLog interface {
	Create(ctx context.Context, s *domain.SearchRecord) error
}

// TextExtractor converts an object body to text by extension.
type TextExtractor interface {
	ExtractBytes(content []byte, ext string) (string, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
