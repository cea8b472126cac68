package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

// FederationInput is a query for the model council.
type FederationInput struct {
	Query  string
	Models []string
}

// FederationOutput holds each council answer, in request order, and the synthesis.
type FederationOutput struct {
	Query     string
	Responses []domain.ModelResponse
	Consensus string
	Models    []string
}

// FederationService asks several models the same question, then asks a meta
// model to summarize where they agree.
type FederationService struct {
	generator     Generator
	log           ExperimentLog
	uuidGen       UUIDGenerator
	defaultModels []string
	metaModel     string
	now           func() time.Time
}

func NewFederationService(generator Generator, log ExperimentLog, defaultModels []string, metaModel string) *FederationService {
	return &FederationService{
		generator:     generator,
		log:           log,
		uuidGen:       &DefaultUUIDGenerator{},
		defaultModels: defaultModels,
		metaModel:     metaModel,
		now:           utcNow,
	}
}

// Run fails as a whole if any council member fails. Nil Models selects the
// configured council; an empty non-nil list runs no council members and only
// the meta model is asked.
func (s *FederationService) Run(ctx context.Context, input FederationInput) (*FederationOutput, error) {
	models := input.Models
	if models == nil {
		if len(s.defaultModels) == 0 {
			return nil, domain.ErrNoModels
		}
		models = s.defaultModels
	}

	ctx, span := telemetry.StartSpan(ctx, "FederationService.Run", telemetry.SpanAttributes{
		Model:     s.metaModel,
		Operation: "federation",
	})
	defer span.End()

	responses := make([]domain.ModelResponse, len(models))
	g, gctx := errgroup.WithContext(ctx)
	for i, model := range models {
		g.Go(func() error {
			text, err := s.generator.Generate(gctx, model, input.Query, nil)
			if err != nil {
				return fmt.Errorf("model %s: %w", model, err)
			}
			responses[i] = domain.ModelResponse{Model: model, Response: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("council generation failed: %w", err)
	}

	consensus, err := s.generator.Generate(ctx, s.metaModel, BuildConsensusPrompt(responses), nil)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to generate consensus: %w", err)
	}

	experiment := &domain.FederationExperiment{
		ID:        s.uuidGen.NewString(),
		Timestamp: s.now(),
		Query:     input.Query,
		Models:    models,
		Responses: responses,
		Consensus: consensus,
	}
	if err := s.log.Create(ctx, experiment); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to record experiment: %w", err)
	}

	return &FederationOutput{
		Query:     input.Query,
		Responses: responses,
		Consensus: consensus,
		Models:    models,
	}, nil
}

// BuildConsensusPrompt lists every "model: response" pair for the meta model.
func BuildConsensusPrompt(responses []domain.ModelResponse) string {
	parts := make([]string, len(responses))
	for i, r := range responses {
		parts[i] = r.Model + ": " + r.Response
	}
	return "Analyze these AI responses for consensus:\n" +
		strings.Join(parts, "\n\n") +
		"\n\nProvide a consensus summary and note any disagreements:"
}
