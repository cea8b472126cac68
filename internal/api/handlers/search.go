package handlers

import (
	"context"
	"net/http"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SourceResponse struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type SearchResponse struct {
	Query        string           `json:"query"`
	AIResponse   string           `json:"ai_response"`
	Sources      []SourceResponse `json:"sources"`
	TotalResults int              `json:"total_results"`
}

func (h *SearchHandler) Handle(r *http.Request) (any, error) {
	var req SearchRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	out, err := h.svc.Search(r.Context(), service.SearchInput{Query: req.Query, Limit: req.Limit})
	if err != nil {
		return nil, err
	}

	sources := make([]SourceResponse, 0, len(out.Sources))
	for _, s := range out.Sources {
		sources = append(sources, SourceResponse{
			ID:      s.ID,
			Title:   s.Title,
			Content: s.Content,
			Score:   s.Score,
		})
	}

	return SearchResponse{
		Query:        out.Query,
		AIResponse:   out.Answer,
		Sources:      sources,
		TotalResults: len(sources),
	}, nil
}
