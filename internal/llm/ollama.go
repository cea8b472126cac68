package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/everlightos/federation/internal/domain"
)

const (
	DefaultOllamaBaseURL        = "http://localhost:11434"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
)

// OllamaModel is the subset of *ollama.LLM used here.
type OllamaModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}

type OllamaConfig struct {
	BaseURL        string
	EmbeddingModel string
}

// Ollama talks to an Ollama server through langchaingo. One client is kept
// per model name.
type Ollama struct {
	config OllamaConfig
	dial   func(model string) (OllamaModel, error)

	mu     sync.Mutex
	models map[string]OllamaModel
}

func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaBaseURL
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultOllamaEmbeddingModel
	}

	o := &Ollama{config: cfg, models: make(map[string]OllamaModel)}
	o.dial = func(model string) (OllamaModel, error) {
		return ollama.New(ollama.WithModel(model), ollama.WithServerURL(cfg.BaseURL))
	}
	return o
}

func (o *Ollama) model(name string) (OllamaModel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if m, ok := o.models[name]; ok {
		return m, nil
	}

	m, err := o.dial(name)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama model %s: %w", name, err)
	}
	o.models[name] = m
	return m, nil
}

// Generate sends the history followed by the prompt as a human turn.
func (o *Ollama) Generate(ctx context.Context, model, prompt string, history []domain.Turn) (string, error) {
	m, err := o.model(model)
	if err != nil {
		return "", err
	}

	content := make([]llms.MessageContent, 0, len(history)+1)
	for _, turn := range history {
		content = append(content, llms.TextParts(messageType(turn.Role), turn.Content))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := m.GenerateContent(ctx, content)
	if err != nil {
		return "", domain.Wrap(domain.ErrModelUnavailable, fmt.Errorf("ollama generate %s: %w", model, err))
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("ollama generate %s: %w", model, errors.New("no choices returned"))
	}

	return resp.Choices[0].Content, nil
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	m, err := o.model(o.config.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	vecs, err := m.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, domain.Wrap(domain.ErrModelUnavailable, fmt.Errorf("failed to create embedding: %w", err))
	}
	if len(vecs) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return vecs[0], nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	case "system":
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}
