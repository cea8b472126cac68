package service

import (
	"context"
	"fmt"
	"time"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

// IngestInput is one document to add to the knowledge base.
type IngestInput struct {
	Title   string
	Content string
	Source  string
	Tags    []string
}

// IngestService embeds a document, stores the row, then upserts its vector.
// The two writes are independent: a failed upsert leaves the row in place.
type IngestService struct {
	embedder Embedder
	store    KnowledgeStore
	index    VectorIndex
	uuidGen  UUIDGenerator
	now      func() time.Time
}

func NewIngestService(embedder Embedder, store KnowledgeStore, index VectorIndex) *IngestService {
	return NewIngestServiceWithUUIDGen(embedder, store, index, &DefaultUUIDGenerator{})
}

// NewIngestServiceWithUUIDGen creates an IngestService with custom UUID generator (for testing)
func NewIngestServiceWithUUIDGen(embedder Embedder, store KnowledgeStore, index VectorIndex, uuidGen UUIDGenerator) *IngestService {
	return &IngestService{
		embedder: embedder,
		store:    store,
		index:    index,
		uuidGen:  uuidGen,
		now:      utcNow,
	}
}

// Ingest returns the id of the new knowledge item.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	item := domain.NewKnowledgeItem(s.uuidGen.NewString(), input.Title, input.Content, input.Source, input.Tags, s.now())
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		span.SetError(err)
		return "", err
	}

	vector, err := s.embedder.Embed(ctx, input.Content)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("failed to embed content: %w", err)
	}

	if err := s.store.Create(ctx, item); err != nil {
		span.SetError(err)
		return "", fmt.Errorf("failed to store knowledge item: %w", err)
	}

	err = s.index.Upsert(ctx, domain.EmbeddingVector{
		ID:     item.ID,
		Values: vector,
		Metadata: map[string]any{
			"title":  item.Title,
			"source": item.Source,
			"tags":   item.Tags,
		},
	})
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("failed to upsert vector: %w", err)
	}

	return item.ID, nil
}
