package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

const (
	// DefaultSearchLimit is the number of vector matches fetched when none is given.
	DefaultSearchLimit = 5
	// SourceExcerptRunes bounds the content returned per source.
	SourceExcerptRunes = 200
)

// SearchInput is one search request.
type SearchInput struct {
	Query string
	Limit int
}

// Source summarizes one retrieved knowledge item.
type Source struct {
	ID      string
	Title   string
	Content string
	Score   float64
}

// SearchOutput is the grounded answer and the items it was grounded on.
type SearchOutput struct {
	Query   string
	Answer  string
	Sources []Source
}

// SearchService answers a query from the knowledge base: embed, match,
// fetch rows, then generate from the fetched context.
type SearchService struct {
	embedder  Embedder
	index     VectorIndex
	store     KnowledgeStore
	generator Generator
	log       SearchLog
	uuidGen   UUIDGenerator
	model     string
	now       func() time.Time
}

func NewSearchService(
	embedder Embedder,
	index VectorIndex,
	store KnowledgeStore,
	generator Generator,
	log SearchLog,
	model string,
) *SearchService {
	return &SearchService{
		embedder:  embedder,
		index:     index,
		store:     store,
		generator: generator,
		log:       log,
		uuidGen:   &DefaultUUIDGenerator{},
		model:     model,
		now:       utcNow,
	}
}

func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Model:     s.model,
		Operation: "search",
	})
	defer span.End()

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, input.Query)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	items := []*domain.KnowledgeItem{}
	if len(matches) > 0 {
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		items, err = s.store.GetByIDs(ctx, ids)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to load knowledge items: %w", err)
		}
	}

	scores := make(map[string]float64, len(matches))
	for _, m := range matches {
		scores[m.ID] = m.Score
	}

	contents := make([]string, 0, len(items))
	sources := make([]Source, 0, len(items))
	for _, item := range items {
		contents = append(contents, item.Content)
		sources = append(sources, Source{
			ID:      item.ID,
			Title:   item.Title,
			Content: item.Excerpt(SourceExcerptRunes),
			Score:   scores[item.ID],
		})
	}

	answer, err := s.generator.Generate(ctx, s.model, BuildSearchPrompt(strings.Join(contents, "\n\n"), input.Query), nil)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	record := &domain.SearchRecord{
		ID:          s.uuidGen.NewString(),
		Timestamp:   s.now(),
		Query:       input.Query,
		ResultCount: len(sources),
		Answer:      answer,
	}
	if err := s.log.Create(ctx, record); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to record search: %w", err)
	}

	return &SearchOutput{
		Query:   input.Query,
		Answer:  answer,
		Sources: sources,
	}, nil
}

// BuildSearchPrompt asks the model to answer only from the retrieved context.
func BuildSearchPrompt(context, query string) string {
	return fmt.Sprintf(`Answer the question using only the context below. If the context does not contain the answer, say that you do not know.

Context:
%s

Question: %s

Answer:`, context, query)
}
