// Package app assembles the federation router from configuration. The HTTP
// daemon and the Lambda entry point share it.
package app

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/everlightos/federation/internal/api/handlers"
	"github.com/everlightos/federation/internal/config"
	"github.com/everlightos/federation/internal/database"
	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/extract"
	"github.com/everlightos/federation/internal/llm"
	"github.com/everlightos/federation/internal/logging"
	"github.com/everlightos/federation/internal/paramstore"
	"github.com/everlightos/federation/internal/repository"
	"github.com/everlightos/federation/internal/server"
	"github.com/everlightos/federation/internal/service"
	"github.com/everlightos/federation/internal/storage"
	"github.com/everlightos/federation/internal/telemetry"
	"github.com/everlightos/federation/migrations"
)

type Options struct {
	Migrate bool
}

// App is an assembled router and the resources it holds.
type App struct {
	Handler http.Handler
	Objects *storage.S3Client

	pool *pgxpool.Pool
}

// LoadConfig loads configuration and, when a parameter prefix is set,
// resolves the remaining secrets from SSM Parameter Store.
func LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.ParamPrefix == "" {
		return cfg, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	store, err := paramstore.New(ssm.NewFromConfig(awsCfg), cfg.ParamPrefix)
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolveSecrets(ctx, store); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitTelemetry starts Sentry when a DSN is configured. The returned
// function flushes pending events and is always safe to call.
func InitTelemetry(cfg *config.Config, logger *zap.Logger) func() {
	if !cfg.HasSentry() {
		return func() {}
	}
	logger = logging.OrNop(logger)

	// 10% sampling in production, everything in development
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
	}, logger)
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
		return func() {}
	}
	return shutdown
}

// NewObjectStore connects to the configured bucket, or returns nil when no
// S3 endpoint is configured.
func NewObjectStore(ctx context.Context, cfg *config.Config) (*storage.S3Client, error) {
	if !cfg.HasS3() {
		return nil, nil
	}
	return storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
}

// LLMSettings maps cfg onto the model backend settings with the embedding
// dimensionality resolved, so embedders and the vector index agree.
func LLMSettings(cfg *config.Config) llm.Settings {
	s := llm.Settings{
		Provider:            cfg.ModelProvider,
		OllamaBaseURL:       cfg.OllamaBaseURL,
		OpenAIAPIKey:        cfg.OpenAIAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}
	s.EmbeddingDimensions = llm.ResolveDimensions(s)
	return s
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	logger = logging.OrNop(logger)

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	if opts.Migrate {
		if err := database.Migrate(cfg.DatabaseURL, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	s3Client, err := NewObjectStore(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	var objects service.ObjectStore = unconfiguredObjectStore{}
	if s3Client != nil {
		objects = s3Client
		logger.Info("object store ready", zap.String("bucket", cfg.S3Bucket))
	} else {
		logger.Warn("object store not configured, bucket routes will fail")
	}

	settings := LLMSettings(cfg)
	logger.Info("embedding index",
		zap.String("model", llm.EmbeddingModelName(settings)),
		zap.Int("dimensions", settings.EmbeddingDimensions))
	generator, err := llm.NewGenerator(settings)
	if err != nil {
		pool.Close()
		return nil, err
	}
	embedder, err := llm.NewEmbedder(cfg.Embedder, settings)
	if err != nil {
		pool.Close()
		return nil, err
	}
	bulkEmbedder, err := llm.NewEmbedder(cfg.BulkEmbedder, settings)
	if err != nil {
		pool.Close()
		return nil, err
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	vectorRepo := repository.NewVectorRepository(pool, settings.EmbeddingDimensions)
	conversationRepo := repository.NewConversationRepository(pool)
	federationRepo := repository.NewFederationRepository(pool)
	searchLogRepo := repository.NewSearchLogRepository(pool)

	chatSvc := service.NewChatService(generator, conversationRepo, cfg.DefaultModel)
	searchSvc := service.NewSearchService(embedder, vectorRepo, knowledgeRepo, generator, searchLogRepo, cfg.DefaultModel)
	ingestSvc := service.NewIngestService(embedder, knowledgeRepo, vectorRepo)
	federationSvc := service.NewFederationService(generator, federationRepo, cfg.CouncilModels, cfg.MetaModel)
	bulkSvc := service.NewBulkIngestService(objects, extract.NewExtractor(), bulkEmbedder, knowledgeRepo, vectorRepo, service.BulkConfig{
		Folder:      cfg.BulkFolder,
		MaxFiles:    cfg.BulkMaxFiles,
		TitlePrefix: cfg.BulkLabel(),
		Tags:        cfg.BulkTags,
	}, logger)
	bucketSvc := service.NewBucketService(objects)

	router := server.NewRouter(server.RouterConfig{
		Logger:            logger,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		ChatHandler:       handlers.NewChatHandler(chatSvc),
		SearchHandler:     handlers.NewSearchHandler(searchSvc),
		IngestHandler:     handlers.NewIngestHandler(ingestSvc),
		BulkHandler:       handlers.NewBulkHandler(bulkSvc, cfg.BulkTitlePrefix, cfg.BulkFolder),
		FederationHandler: handlers.NewFederationHandler(federationSvc),
		BucketHandler:     handlers.NewBucketHandler(bucketSvc),
	})

	return &App{Handler: router, Objects: s3Client, pool: pool}, nil
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

type unconfiguredObjectStore struct{}

var errObjectStoreUnconfigured = domain.NewDomainError(domain.ErrCodeInternalError, "object store not configured: FEDERATION_S3_ENDPOINT required")

func (unconfiguredObjectStore) List(context.Context, string) ([]domain.BucketObject, error) {
	return nil, errObjectStoreUnconfigured
}

func (unconfiguredObjectStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errObjectStoreUnconfigured
}

func (unconfiguredObjectStore) URI(key string) string {
	return key
}
