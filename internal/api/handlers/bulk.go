package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/service"
)

type BulkIngestService interface {
	Ingest(ctx context.Context, input service.BulkInput) (*service.BulkOutput, error)
}

// BulkHandler serves folder ingestion. Collection names the content set in
// response messages, e.g. "Voyagers".
type BulkHandler struct {
	svc        BulkIngestService
	collection string
	folder     string
}

func NewBulkHandler(svc BulkIngestService, collection, defaultFolder string) *BulkHandler {
	return &BulkHandler{svc: svc, collection: collection, folder: defaultFolder}
}

type BulkRequest struct {
	FolderPath string `json:"folder_path"`
	MaxFiles   int    `json:"max_files"`
}

type BulkFileResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	Size   int64  `json:"size"`
}

type BulkResults struct {
	Processed int                `json:"processed"`
	Failed    int                `json:"failed"`
	Files     []BulkFileResponse `json:"files"`
}

type BulkResponse struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	FolderPath      string      `json:"folder_path"`
	TotalFilesFound int         `json:"total_files_found"`
	Results         BulkResults `json:"results"`
}

// BulkEmptyResponse is returned with status 200 when the folder is empty.
type BulkEmptyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Note    string `json:"note"`
}

func (h *BulkHandler) Handle(r *http.Request) (any, error) {
	var req BulkRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	out, err := h.svc.Ingest(r.Context(), service.BulkInput{FolderPath: req.FolderPath, MaxFiles: req.MaxFiles})
	if err != nil {
		return nil, err
	}

	if !out.Found {
		return BulkEmptyResponse{
			Success: false,
			Message: fmt.Sprintf("No files found in %s folder", service.FolderPrefix(out.FolderPath)),
			Note:    fmt.Sprintf("Upload parsed PDF chunks to %s folder first", service.FolderPrefix(h.folder)),
		}, nil
	}

	files := make([]BulkFileResponse, 0, len(out.Files))
	for _, f := range out.Files {
		files = append(files, BulkFileResponse{ID: f.ID, Title: f.Title, Source: f.Source, Size: f.Size})
	}

	return BulkResponse{
		Success:         true,
		Message:         fmt.Sprintf("%s chunks ingestion completed", h.collection),
		FolderPath:      out.FolderPath,
		TotalFilesFound: out.TotalFound,
		Results: BulkResults{
			Processed: out.Processed,
			Failed:    out.Failed,
			Files:     files,
		},
	}, nil
}
