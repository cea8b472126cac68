package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/service"
)

type MockChatService struct{ mock.Mock }

func (m *MockChatService) Chat(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatOutput), args.Error(1)
}

type MockSearchService struct{ mock.Mock }

func (m *MockSearchService) Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchOutput), args.Error(1)
}

type MockIngestService struct{ mock.Mock }

func (m *MockIngestService) Ingest(ctx context.Context, input service.IngestInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

type MockFederationService struct{ mock.Mock }

func (m *MockFederationService) Run(ctx context.Context, input service.FederationInput) (*service.FederationOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FederationOutput), args.Error(1)
}

type MockBulkIngestService struct{ mock.Mock }

func (m *MockBulkIngestService) Ingest(ctx context.Context, input service.BulkInput) (*service.BulkOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkOutput), args.Error(1)
}

type MockBucketService struct{ mock.Mock }

func (m *MockBucketService) List(ctx context.Context, prefix string) ([]domain.BucketObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BucketObject), args.Error(1)
}

func postJSON(path, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}
