package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/everlightos/federation/internal/domain"
)

// VectorRepository is the similarity index over knowledge_vectors.
type VectorRepository struct {
	db         dbtx
	dimensions int
}

func NewVectorRepository(pool *pgxpool.Pool, dimensions int) *VectorRepository {
	if dimensions <= 0 {
		dimensions = domain.DefaultEmbeddingDimensions
	}
	return &VectorRepository{db: pool, dimensions: dimensions}
}

// Upsert inserts the vector or replaces the one stored under the same id.
func (r *VectorRepository) Upsert(ctx context.Context, v domain.EmbeddingVector) error {
	if err := domain.ValidateEmbeddingVector(v, r.dimensions); err != nil {
		return err
	}

	metadata := v.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode vector metadata: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO knowledge_vectors (id, embedding, metadata, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE
		 SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata, updated_at = now()`,
		v.ID, pgvector.NewVector(v.Values), metadataJSON,
	)
	return err
}

// Query returns the topK nearest vectors by cosine distance, best first.
// Score is 1/(1+distance), so higher is more similar.
func (r *VectorRepository) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	if len(vector) != r.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", domain.ErrWrongDimensions, len(vector), r.dimensions)
	}
	if topK <= 0 {
		topK = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, metadata, 1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM knowledge_vectors
		 WHERE vector_dims(embedding) = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(vector), r.dimensions, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]domain.VectorMatch, 0, topK)
	for rows.Next() {
		var m domain.VectorMatch
		var metadataJSON []byte
		if err := rows.Scan(&m.ID, &metadataJSON, &m.Score); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &m.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode vector metadata: %w", err)
			}
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
