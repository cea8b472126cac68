package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/service"
)

type ChatService interface {
	Chat(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message   string        `json:"message"`
	Model     string        `json:"model"`
	Context   []domain.Turn `json:"context"`
	SessionID string        `json:"session_id"`
}

type ChatResponse struct {
	Response  string        `json:"response"`
	Model     string        `json:"model"`
	Context   []domain.Turn `json:"context"`
	Timestamp string        `json:"timestamp"`
}

func (h *ChatHandler) Handle(r *http.Request) (any, error) {
	var req ChatRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	out, err := h.svc.Chat(r.Context(), service.ChatInput{
		Message:   req.Message,
		Model:     req.Model,
		Context:   req.Context,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, err
	}

	return ChatResponse{
		Response:  out.Response,
		Model:     out.Model,
		Context:   out.Context,
		Timestamp: out.Timestamp.Format(time.RFC3339Nano),
	}, nil
}
