package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/everlightos/federation/internal/domain"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, model, prompt string, history []domain.Turn) (string, error) {
	args := m.Called(ctx, model, prompt, history)
	return args.String(0), args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockKnowledgeStore struct {
	mock.Mock
}

func (m *MockKnowledgeStore) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKnowledgeStore) GetByIDs(ctx context.Context, ids []string) ([]*domain.KnowledgeItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeItem), args.Error(1)
}

type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Upsert(ctx context.Context, v domain.EmbeddingVector) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	args := m.Called(ctx, vector, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VectorMatch), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) List(ctx context.Context, prefix string) ([]domain.BucketObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BucketObject), args.Error(1)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockObjectStore) URI(key string) string {
	return "s3://one-bucket-everlightos/" + key
}

type MockConversationLog struct {
	mock.Mock
}

func (m *MockConversationLog) Create(ctx context.Context, c *domain.ConversationRecord) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockExperimentLog struct {
	mock.Mock
}

func (m *MockExperimentLog) Create(ctx context.Context, e *domain.FederationExperiment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockSearchLog struct {
	mock.Mock
}

func (m *MockSearchLog) Create(ctx context.Context, s *domain.SearchRecord) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// sequenceUUIDGen hands out ids from a fixed list.
type sequenceUUIDGen struct {
	mu  sync.Mutex
	ids []string
	n   int
}

func (g *sequenceUUIDGen) NewString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.n%len(g.ids)]
	g.n++
	return id
}

type plainExtractor struct{}

func (plainExtractor) ExtractBytes(content []byte, _ string) (string, error) {
	return string(content), nil
}
