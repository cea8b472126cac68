package handlers

import (
	"context"
	"net/http"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/service"
)

const ingestMessage = "Content ingested into The One Ring"

type IngestService interface {
	Ingest(ctx context.Context, input service.IngestInput) (string, error)
}

type IngestHandler struct {
	svc IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

type IngestRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Source  string   `json:"source"`
	Tags    []string `json:"tags"`
}

type IngestResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (h *IngestHandler) Handle(r *http.Request) (any, error) {
	var req IngestRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	id, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Title:   req.Title,
		Content: req.Content,
		Source:  req.Source,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, err
	}

	return IngestResponse{Success: true, ID: id, Message: ingestMessage}, nil
}
