package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/everlightos/federation/internal/domain"
)

type searchMocks struct {
	embedder *MockEmbedder
	index    *MockVectorIndex
	store    *MockKnowledgeStore
	gen      *MockGenerator
	log      *MockSearchLog
}

func newSearchService() (*SearchService, searchMocks) {
	m := searchMocks{
		embedder: new(MockEmbedder),
		index:    new(MockVectorIndex),
		store:    new(MockKnowledgeStore),
		gen:      new(MockGenerator),
		log:      new(MockSearchLog),
	}
	return NewSearchService(m.embedder, m.index, m.store, m.gen, m.log, "llama3.1:8b"), m
}

func TestSearchService_Search_Success(t *testing.T) {
	svc, m := newSearchService()
	vec := []float32{0.1, 0.2}
	long := strings.Repeat("x", 250)

	m.embedder.On("Embed", mock.Anything, "emerald covenant").Return(vec, nil)
	m.index.On("Query", mock.Anything, vec, 3).Return([]domain.VectorMatch{
		{ID: "a", Score: 0.9},
		{ID: "b", Score: 0.7},
	}, nil)
	m.store.On("GetByIDs", mock.Anything, []string{"a", "b"}).Return([]*domain.KnowledgeItem{
		domain.NewKnowledgeItem("b", "Newer", "short body", "manual", nil, time.Now()),
		domain.NewKnowledgeItem("a", "Older", long, "manual", nil, time.Now().Add(-time.Hour)),
	}, nil)
	m.gen.On("Generate", mock.Anything, "llama3.1:8b", mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "short body\n\n"+long) &&
			strings.Contains(p, "Question: emerald covenant") &&
			strings.Contains(p, "using only the context")
	}), []domain.Turn(nil)).Return("grounded answer", nil)
	m.log.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.SearchRecord) bool {
		return r.Query == "emerald covenant" && r.ResultCount == 2 && r.Answer == "grounded answer"
	})).Return(nil)

	out, err := svc.Search(context.Background(), SearchInput{Query: "emerald covenant", Limit: 3})

	require.NoError(t, err)
	assert.Equal(t, "grounded answer", out.Answer)
	require.Len(t, out.Sources, 2)
	assert.Equal(t, "b", out.Sources[0].ID)
	assert.Equal(t, 0.7, out.Sources[0].Score)
	assert.Equal(t, 0.9, out.Sources[1].Score)
	assert.Equal(t, strings.Repeat("x", 200)+"...", out.Sources[1].Content)
	m.log.AssertExpectations(t)
}

func TestSearchService_Search_NoMatchesSkipsStore(t *testing.T) {
	svc, m := newSearchService()
	vec := []float32{0.1}

	m.embedder.On("Embed", mock.Anything, "nothing").Return(vec, nil)
	m.index.On("Query", mock.Anything, vec, DefaultSearchLimit).Return([]domain.VectorMatch{}, nil)
	m.gen.On("Generate", mock.Anything, "llama3.1:8b", mock.Anything, []domain.Turn(nil)).Return("I do not know.", nil)
	m.log.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.SearchRecord) bool {
		return r.ResultCount == 0
	})).Return(nil)

	out, err := svc.Search(context.Background(), SearchInput{Query: "nothing", Limit: -1})

	require.NoError(t, err)
	assert.Equal(t, "I do not know.", out.Answer)
	assert.NotNil(t, out.Sources)
	assert.Empty(t, out.Sources)
	m.store.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestSearchService_Search_Errors(t *testing.T) {
	t.Run("embed", func(t *testing.T) {
		svc, m := newSearchService()
		m.embedder.On("Embed", mock.Anything, "q").Return(nil, errors.New("embed down"))

		_, err := svc.Search(context.Background(), SearchInput{Query: "q"})
		assert.ErrorContains(t, err, "embed down")
	})

	t.Run("index", func(t *testing.T) {
		svc, m := newSearchService()
		m.embedder.On("Embed", mock.Anything, "q").Return([]float32{1}, nil)
		m.index.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("index down"))

		_, err := svc.Search(context.Background(), SearchInput{Query: "q"})
		assert.ErrorContains(t, err, "index down")
	})

	t.Run("generate", func(t *testing.T) {
		svc, m := newSearchService()
		m.embedder.On("Embed", mock.Anything, "q").Return([]float32{1}, nil)
		m.index.On("Query", mock.Anything, mock.Anything, mock.Anything).Return([]domain.VectorMatch{}, nil)
		m.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("model down"))

		_, err := svc.Search(context.Background(), SearchInput{Query: "q"})
		assert.ErrorContains(t, err, "model down")
		m.log.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
