package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/everlightos/federation/internal/domain"
)

// FederationRepository stores consensus experiments.
type FederationRepository struct {
	db dbtx
}

func NewFederationRepository(pool *pgxpool.Pool) *FederationRepository {
	return &FederationRepository{db: pool}
}

func (r *FederationRepository) Create(ctx context.Context, e *domain.FederationExperiment) error {
	responsesJSON, err := json.Marshal(e.Responses)
	if err != nil {
		return fmt.Errorf("failed to encode responses: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO federation_experiments (id, timestamp, query, models, responses, consensus)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Timestamp, e.Query, e.Models, responsesJSON, e.Consensus,
	)
	return err
}
