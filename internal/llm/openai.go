package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/everlightos/federation/internal/domain"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// ChatAPI is the chat completion call of *openai.Client.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIAdapter(client *openai.Client, model openai.EmbeddingModel) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client: client,
		model:  model,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
}

// OpenAI generates with chat completions and embeds with the embeddings API.
// Vector length is left to DimensionGuard.
type OpenAI struct {
	chat  ChatAPI
	embed EmbeddingAPI
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	client := openai.NewClient(cfg.APIKey)
	return &OpenAI{
		chat:  client,
		embed: NewOpenAIAdapter(client, openai.EmbeddingModel(cfg.EmbeddingModel)),
	}
}

func (c *OpenAI) Generate(ctx context.Context, model, prompt string, history []domain.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: chatRole(turn.Role), Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", domain.Wrap(domain.ErrModelUnavailable, fmt.Errorf("openai generate %s: %w", model, err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate %s: %w", model, errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed generates an embedding for the given text
func (c *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	embedding, err := c.embed.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, domain.Wrap(domain.ErrModelUnavailable, fmt.Errorf("failed to create embedding: %w", err))
	}

	return embedding, nil
}

func chatRole(role string) string {
	switch role {
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case "system":
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
