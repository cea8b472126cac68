package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/telemetry"
)

// ChunkTypeParsed marks vectors written by bulk ingestion.
const ChunkTypeParsed = "pdf_parsed"

// BulkConfig holds the defaults applied to bulk requests.
type BulkConfig struct {
	Folder      string
	MaxFiles    int
	TitlePrefix string
	Tags        []string
}

// BulkInput selects a bucket folder and how many of its objects to ingest.
type BulkInput struct {
	FolderPath string
	MaxFiles   int
}

// BulkFile summarizes one ingested object.
type BulkFile struct {
	ID     string
	Title  string
	Source string
	Size   int64
}

// BulkOutput reports a bulk run. Found is false when the folder had no objects.
type BulkOutput struct {
	Found      bool
	FolderPath string
	TotalFound int
	Processed  int
	Failed     int
	Files      []BulkFile
}

// BulkIngestService copies bucket objects into the knowledge base.
type BulkIngestService struct {
	objects   ObjectStore
	extractor TextExtractor
	embedder  Embedder
	store     KnowledgeStore
	index     VectorIndex
	uuidGen   UUIDGenerator
	cfg       BulkConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewBulkIngestService(
	objects ObjectStore,
	extractor TextExtractor,
	embedder Embedder,
	store KnowledgeStore,
	index VectorIndex,
	cfg BulkConfig,
	logger *zap.Logger,
) *BulkIngestService {
	if cfg.Folder == "" {
		cfg.Folder = "voyagers-chunks"
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 10
	}
	if cfg.Tags == nil {
		cfg.Tags = []string{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkIngestService{
		objects:   objects,
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		index:     index,
		uuidGen:   &DefaultUUIDGenerator{},
		cfg:       cfg,
		logger:    logger,
		now:       utcNow,
	}
}

// Ingest lists the folder and ingests up to MaxFiles objects. Per-object
// failures are counted and logged; only the list call can fail the run.
func (s *BulkIngestService) Ingest(ctx context.Context, input BulkInput) (*BulkOutput, error) {
	folder := input.FolderPath
	if folder == "" {
		folder = s.cfg.Folder
	}
	maxFiles := input.MaxFiles
	if maxFiles <= 0 {
		maxFiles = s.cfg.MaxFiles
	}

	ctx, span := telemetry.StartSpan(ctx, "BulkIngestService.Ingest", telemetry.SpanAttributes{
		ObjectKey: folder,
		Operation: "bulk_ingest",
	})
	defer span.End()

	objects, err := s.objects.List(ctx, FolderPrefix(folder))
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to list %s: %w", folder, err)
	}

	out := &BulkOutput{
		Found:      len(objects) > 0,
		FolderPath: folder,
		TotalFound: len(objects),
		Files:      []BulkFile{},
	}
	if !out.Found {
		return out, nil
	}

	if len(objects) > maxFiles {
		objects = objects[:maxFiles]
	}

	for _, obj := range objects {
		file, ok, err := s.ingestObject(ctx, obj)
		if err != nil {
			out.Failed++
			s.logger.Warn("bulk ingest: object failed",
				zap.String("key", obj.Key),
				zap.Error(err))
			telemetry.AddBreadcrumb(ctx, "bulk", "failed "+obj.Key+": "+err.Error())
			continue
		}
		if !ok {
			continue
		}
		out.Processed++
		out.Files = append(out.Files, *file)
	}

	s.logger.Info("bulk ingest completed",
		zap.String("folder", folder),
		zap.Int("found", out.TotalFound),
		zap.Int("processed", out.Processed),
		zap.Int("failed", out.Failed))

	return out, nil
}

// ingestObject returns ok=false when the object vanished between list and get.
func (s *BulkIngestService) ingestObject(ctx context.Context, obj domain.BucketObject) (*BulkFile, bool, error) {
	body, ok, err := s.objects.Get(ctx, obj.Key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	content, err := s.extractor.ExtractBytes(body, obj.Ext())
	if err != nil {
		return nil, false, fmt.Errorf("extract text: %w", err)
	}

	title := s.title(obj.FileName())
	source := s.objects.URI(obj.Key)
	tags := append([]string(nil), s.cfg.Tags...)

	item := domain.NewKnowledgeItem(s.uuidGen.NewString(), title, content, source, tags, s.now())
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return nil, false, err
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, false, fmt.Errorf("store knowledge item: %w", err)
	}

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return nil, false, fmt.Errorf("embed: %w", err)
	}

	err = s.index.Upsert(ctx, domain.EmbeddingVector{
		ID:     item.ID,
		Values: vector,
		Metadata: map[string]any{
			"title":      title,
			"source":     source,
			"chunk_type": ChunkTypeParsed,
			"tags":       tags,
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("upsert vector: %w", err)
	}

	return &BulkFile{ID: item.ID, Title: title, Source: obj.Key, Size: obj.Size}, true, nil
}

func (s *BulkIngestService) title(fileName string) string {
	title := domain.TitleFromFileName(fileName)
	if s.cfg.TitlePrefix == "" {
		return title
	}
	return s.cfg.TitlePrefix + title
}

// FolderPrefix returns folder with exactly one trailing slash.
func FolderPrefix(folder string) string {
	return strings.TrimRight(folder, "/") + "/"
}
