package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/everlightos/federation/internal/api/handlers"
	"github.com/everlightos/federation/internal/api/middleware"
)

// Banner is the plain text body returned for paths no route claims.
const Banner = "EverLightOS Federation API - The One Ring Worker"

type RouterConfig struct {
	Logger       *zap.Logger
	MaxBodyBytes int64

	ChatHandler       *handlers.ChatHandler
	SearchHandler     *handlers.SearchHandler
	IngestHandler     *handlers.IngestHandler
	BulkHandler       *handlers.BulkHandler
	FederationHandler *handlers.FederationHandler
	BucketHandler     *handlers.BucketHandler
}

// Routes returns the dispatch table in match order. The bulk route precedes
// /api/ingest because it shares that prefix. Handlers left nil are omitted.
func Routes(cfg RouterConfig) []Route {
	var routes []Route
	add := func(prefix string, ok bool, h HandlerFunc, flagged bool) {
		if ok {
			routes = append(routes, Route{Prefix: prefix, Handler: h, Flagged: flagged})
		}
	}

	add("/api/chat", cfg.ChatHandler != nil, func(r *http.Request) (any, error) { return cfg.ChatHandler.Handle(r) }, false)
	add("/api/search", cfg.SearchHandler != nil, func(r *http.Request) (any, error) { return cfg.SearchHandler.Handle(r) }, false)
	add("/api/ingest-voyagers", cfg.BulkHandler != nil, func(r *http.Request) (any, error) { return cfg.BulkHandler.Handle(r) }, true)
	add("/api/ingest", cfg.IngestHandler != nil, func(r *http.Request) (any, error) { return cfg.IngestHandler.Handle(r) }, false)
	add("/api/federation", cfg.FederationHandler != nil, func(r *http.Request) (any, error) { return cfg.FederationHandler.Handle(r) }, false)
	add("/api/list-bucket", cfg.BucketHandler != nil, func(r *http.Request) (any, error) { return cfg.BucketHandler.Handle(r) }, true)

	return routes
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Sentry)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))

	d := NewDispatcher(Routes(cfg), logger)
	r.Handle("/", d)
	r.Handle("/*", d)

	return r
}
