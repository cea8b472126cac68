// Package llm adapts model-inference backends to the two calls the
// federation services need: text generation and text embedding.
package llm

import (
	"context"
	"fmt"

	"github.com/everlightos/federation/internal/domain"
)

// Generator produces one completion for a prompt, optionally continuing a
// prior conversation.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, history []domain.Turn) (string, error)
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider names accepted by NewGenerator.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Embedder strategies accepted by NewEmbedder.
const (
	EmbedderModel       = "model"
	EmbedderPlaceholder = "placeholder"
)

// Settings selects and configures a backend.
type Settings struct {
	Provider       string
	OllamaBaseURL  string
	OpenAIAPIKey   string
	EmbeddingModel string
	// EmbeddingDimensions of zero is resolved from the embedding model.
	EmbeddingDimensions int
}

// NewGenerator returns the generator for the configured provider.
func NewGenerator(s Settings) (Generator, error) {
	switch s.Provider {
	case "", ProviderOllama:
		return NewOllama(OllamaConfig{BaseURL: s.OllamaBaseURL, EmbeddingModel: s.EmbeddingModel}), nil
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:         s.OpenAIAPIKey,
			EmbeddingModel: s.EmbeddingModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", s.Provider)
	}
}

// NewEmbedder returns the embedder for a strategy. The model strategy reuses
// the configured provider and is wrapped in a dimension guard.
func NewEmbedder(strategy string, s Settings) (Embedder, error) {
	dims := ResolveDimensions(s)

	switch strategy {
	case EmbedderPlaceholder:
		return NewPlaceholder(dims), nil
	case "", EmbedderModel:
		gen, err := NewGenerator(s)
		if err != nil {
			return nil, err
		}
		emb, ok := gen.(Embedder)
		if !ok {
			return nil, fmt.Errorf("provider %q cannot embed", s.Provider)
		}
		return NewDimensionGuard(emb, dims), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", strategy)
	}
}
