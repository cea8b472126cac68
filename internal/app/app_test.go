package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlightos/federation/internal/config"
	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/llm"
)

func TestNewObjectStore_Unconfigured(t *testing.T) {
	s3, err := NewObjectStore(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s3)
}

func TestUnconfiguredObjectStore(t *testing.T) {
	var store unconfiguredObjectStore

	_, err := store.List(context.Background(), "")
	assert.ErrorIs(t, err, errObjectStoreUnconfigured)
	assert.Contains(t, err.Error(), "FEDERATION_S3_ENDPOINT")

	_, ok, err := store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Error(t, err)

	var de *domain.DomainError
	assert.ErrorAs(t, err, &de)
}

func TestInitTelemetry_NoDSN(t *testing.T) {
	shutdown := InitTelemetry(&config.Config{}, nil)
	require.NotNil(t, shutdown)
	shutdown()
}

func TestLoadConfig_WithoutParamPrefix(t *testing.T) {
	t.Setenv("FEDERATION_DATABASE_URL", "postgres://localhost/federation")
	t.Setenv("FEDERATION_PARAM_PREFIX", "")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/federation", cfg.DatabaseURL)
}

// fakeOllama answers embedding calls with vectors of the given length.
func fakeOllama(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = 0.01
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/embeddings":
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vec})
		case "/api/embed":
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{vec}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMSettings_DefaultsEmbedEndToEnd(t *testing.T) {
	srv := fakeOllama(t, 768)
	t.Setenv("FEDERATION_DATABASE_URL", "postgres://localhost/federation")
	t.Setenv("FEDERATION_OLLAMA_BASE_URL", srv.URL)

	cfg, err := config.Load()
	require.NoError(t, err)

	settings := LLMSettings(cfg)
	assert.Equal(t, 768, settings.EmbeddingDimensions)

	emb, err := llm.NewEmbedder(cfg.Embedder, settings)
	require.NoError(t, err)
	vec, err := emb.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, settings.EmbeddingDimensions)

	bulk, err := llm.NewEmbedder(cfg.BulkEmbedder, settings)
	require.NoError(t, err)
	vec, err = bulk.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, settings.EmbeddingDimensions)
}

func TestLLMSettings_ExplicitDimensions(t *testing.T) {
	settings := LLMSettings(&config.Config{ModelProvider: llm.ProviderOllama, EmbeddingDimensions: 1024})
	assert.Equal(t, 1024, settings.EmbeddingDimensions)

	settings = LLMSettings(&config.Config{ModelProvider: llm.ProviderOpenAI})
	assert.Equal(t, 1536, settings.EmbeddingDimensions)
}
