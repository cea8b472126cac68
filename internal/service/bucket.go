package service

import (
	"context"
	"fmt"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

// BucketService exposes the object listing as-is.
type BucketService struct {
	objects ObjectStore
}

func NewBucketService(objects ObjectStore) *BucketService {
	return &BucketService{objects: objects}
}

// List makes exactly one list call and applies no filtering of its own.
func (s *BucketService) List(ctx context.Context, prefix string) ([]domain.BucketObject, error) {
	ctx, span := telemetry.StartSpan(ctx, "BucketService.List", telemetry.SpanAttributes{
		ObjectKey: prefix,
		Operation: "list_bucket",
	})
	defer span.End()

	objects, err := s.objects.List(ctx, prefix)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to list bucket: %w", err)
	}
	return objects, nil
}
