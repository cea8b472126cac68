package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/everlightos/federation/internal/domain"
)

type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func (r *KnowledgeRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	tags := k.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_base (id, title, content, source, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		k.ID, k.Title, k.Content, k.Source, tags, k.CreatedAt,
	)
	return err
}

// GetByIDs returns the rows for ids, newest first. Unknown ids are ignored.
func (r *KnowledgeRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.KnowledgeItem, error) {
	if len(ids) == 0 {
		return []*domain.KnowledgeItem{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, source, tags, created_at
		 FROM knowledge_base WHERE id = ANY($1)
		 ORDER BY created_at DESC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanKnowledgeRows(rows)
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeItem, error) {
	results := make([]*domain.KnowledgeItem, 0)
	for rows.Next() {
		var k domain.KnowledgeItem
		if err := rows.Scan(&k.ID, &k.Title, &k.Content, &k.Source, &k.Tags, &k.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &k)
	}
	return results, rows.Err()
}
