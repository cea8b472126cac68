package handlers

import (
	"context"
	"net/http"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/service"
)

type FederationService interface {
	Run(ctx context.Context, input service.FederationInput) (*service.FederationOutput, error)
}

type FederationHandler struct {
	svc FederationService
}

func NewFederationHandler(svc FederationService) *FederationHandler {
	return &FederationHandler{svc: svc}
}

type FederationRequest struct {
	Query  string   `json:"query"`
	Models []string `json:"models"`
}

type FederationResponse struct {
	Query               string                 `json:"query"`
	IndividualResponses []domain.ModelResponse `json:"individual_responses"`
	Consensus           string                 `json:"consensus"`
	ModelsUsed          []string               `json:"models_used"`
	ExperimentType      string                 `json:"experiment_type"`
}

func (h *FederationHandler) Handle(r *http.Request) (any, error) {
	var req FederationRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	out, err := h.svc.Run(r.Context(), service.FederationInput{Query: req.Query, Models: req.Models})
	if err != nil {
		return nil, err
	}

	return FederationResponse{
		Query:               out.Query,
		IndividualResponses: out.Responses,
		Consensus:           out.Consensus,
		ModelsUsed:          out.Models,
		ExperimentType:      domain.ExperimentTypeConsensus,
	}, nil
}
