package llm

import (
	"context"
	"math/rand/v2"
)

// Placeholder produces uniformly random vectors in [-0.5, 0.5). The values
// do not depend on the input text, so similarity against them is noise.
type Placeholder struct {
	dimensions int
}

func NewPlaceholder(dimensions int) *Placeholder {
	return &Placeholder{dimensions: dimensions}
}

func (p *Placeholder) Embed(_ context.Context, _ string) ([]float32, error) {
	vec := make([]float32, p.dimensions)
	for i := range vec {
		vec[i] = rand.Float32() - 0.5
	}
	return vec, nil
}
