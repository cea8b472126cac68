package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/everlightos/federation/internal/domain"
)

// ConversationRepository stores one row per answered chat.
type ConversationRepository struct {
	db dbtx
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: pool}
}

func (r *ConversationRepository) Create(ctx context.Context, c *domain.ConversationRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conversations (id, timestamp, model, prompt, response, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Timestamp, c.Model, c.Prompt, c.Response, c.SessionID,
	)
	return err
}
