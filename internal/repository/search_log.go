package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/everlightos/federation/internal/domain"
)

// SearchLogRepository stores one row per answered search.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

func (r *SearchLogRepository) Create(ctx context.Context, s *domain.SearchRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO search_logs (id, timestamp, query, result_count, answer)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Timestamp, s.Query, s.ResultCount, s.Answer,
	)
	return err
}
