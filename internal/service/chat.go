package service

import (
	"context"
	"fmt"
	"time"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

// ChatInput is one chat request.
type ChatInput struct {
	Message   string
	Model     string
	Context   []domain.Turn
	SessionID string
}

// ChatOutput is the model answer and the conversation extended by this exchange.
type ChatOutput struct {
	Response  string
	Model     string
	Context   []domain.Turn
	Timestamp time.Time
}

// ChatService forwards a message to a model and logs the exchange.
type ChatService struct {
	generator    Generator
	log          ConversationLog
	uuidGen      UUIDGenerator
	defaultModel string
	now          func() time.Time
}

func NewChatService(generator Generator, log ConversationLog, defaultModel string) *ChatService {
	return NewChatServiceWithUUIDGen(generator, log, defaultModel, &DefaultUUIDGenerator{})
}

// NewChatServiceWithUUIDGen creates a ChatService with custom UUID generator (for testing)
func NewChatServiceWithUUIDGen(generator Generator, log ConversationLog, defaultModel string, uuidGen UUIDGenerator) *ChatService {
	return &ChatService{
		generator:    generator,
		log:          log,
		uuidGen:      uuidGen,
		defaultModel: defaultModel,
		now:          utcNow,
	}
}

func (s *ChatService) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	model := input.Model
	if model == "" {
		model = s.defaultModel
	}

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Chat", telemetry.SpanAttributes{
		Model:     model,
		Operation: "chat",
	})
	defer span.End()

	history := input.Context
	if history == nil {
		history = []domain.Turn{}
	}

	response, err := s.generator.Generate(ctx, model, input.Message, history)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	now := s.now()
	record := domain.NewConversationRecord(s.uuidGen.NewString(), model, input.Message, response, input.SessionID, now)
	if err := s.log.Create(ctx, record); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to record conversation: %w", err)
	}

	updated := make([]domain.Turn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		domain.Turn{Role: domain.RoleUser, Content: input.Message},
		domain.Turn{Role: domain.RoleAssistant, Content: response},
	)

	return &ChatOutput{
		Response:  response,
		Model:     model,
		Context:   updated,
		Timestamp: now,
	}, nil
}
