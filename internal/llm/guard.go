package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/everlightos/federation/internal/domain"
)

// DimensionGuard rejects empty input and vectors whose length differs from
// the index dimensionality.
type DimensionGuard struct {
	inner      Embedder
	dimensions int
}

func NewDimensionGuard(inner Embedder, dimensions int) *DimensionGuard {
	return &DimensionGuard{inner: inner, dimensions: dimensions}
}

func (g *DimensionGuard) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	vec, err := g.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(vec) != g.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", domain.ErrWrongDimensions, len(vec), g.dimensions)
	}
	return vec, nil
}
