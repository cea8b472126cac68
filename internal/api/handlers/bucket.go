package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/everlightos/federation/internal/domain"
)

type BucketService interface {
	List(ctx context.Context, prefix string) ([]domain.BucketObject, error)
}

type BucketHandler struct {
	svc BucketService
}

func NewBucketHandler(svc BucketService) *BucketHandler {
	return &BucketHandler{svc: svc}
}

type ObjectResponse struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Uploaded string `json:"uploaded"`
}

type ListBucketResponse struct {
	Success      bool             `json:"success"`
	Prefix       string           `json:"prefix"`
	TotalObjects int              `json:"total_objects"`
	Objects      []ObjectResponse `json:"objects"`
}

func (h *BucketHandler) Handle(r *http.Request) (any, error) {
	prefix := r.URL.Query().Get("prefix")

	objects, err := h.svc.List(r.Context(), prefix)
	if err != nil {
		return nil, err
	}

	resp := ListBucketResponse{
		Success:      true,
		Prefix:       prefix,
		TotalObjects: len(objects),
		Objects:      make([]ObjectResponse, 0, len(objects)),
	}
	for _, obj := range objects {
		resp.Objects = append(resp.Objects, ObjectResponse{
			Key:      obj.Key,
			Size:     obj.Size,
			Uploaded: obj.Uploaded.UTC().Format(time.RFC3339Nano),
		})
	}
	return resp, nil
}
