//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap/zaptest"

	"github.com/everlightos/federation/internal/api/handlers"
	"github.com/everlightos/federation/internal/cli/client"
	"github.com/everlightos/federation/internal/domain"
	"github.com/everlightos/federation/internal/extract"
	"github.com/everlightos/federation/internal/llm"
	"github.com/everlightos/federation/internal/repository"
	"github.com/everlightos/federation/internal/server"
	"github.com/everlightos/federation/internal/service"
	"github.com/everlightos/federation/internal/storage"
	"github.com/everlightos/federation/internal/testutil"
)

const (
	e2eDimensions = 16
	e2eFolder     = "voyagers-chunks"
	e2eModel      = "llama3.1:8b"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	RustFSC    *testutil.RustFSContainer
	Pool       *pgxpool.Pool
	Server     *httptest.Server
	S3Client   *storage.S3Client
	HTTPClient *http.Client
}

// echoGenerator answers every prompt deterministically so assertions do not
// depend on a running model.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, model, prompt string, history []domain.Turn) (string, error) {
	first := strings.SplitN(prompt, "\n", 2)[0]
	return fmt.Sprintf("[%s|%d] %s", model, len(history), first), nil
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC)

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "test-documents",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	env := &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		RustFSC:    s3C,
		Pool:       pool,
		S3Client:   s3Client,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	env.Server = httptest.NewServer(newRouter(t, pool, s3Client))
	return env
}

func newRouter(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client) http.Handler {
	logger := zaptest.NewLogger(t)
	gen := echoGenerator{}
	emb := llm.NewPlaceholder(e2eDimensions)

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	vectorRepo := repository.NewVectorRepository(pool, e2eDimensions)

	chatSvc := service.NewChatService(gen, repository.NewConversationRepository(pool), e2eModel)
	searchSvc := service.NewSearchService(emb, vectorRepo, knowledgeRepo, gen, repository.NewSearchLogRepository(pool), e2eModel)
	ingestSvc := service.NewIngestService(emb, knowledgeRepo, vectorRepo)
	federationSvc := service.NewFederationService(gen, repository.NewFederationRepository(pool), []string{"a", "b"}, e2eModel)
	bulkSvc := service.NewBulkIngestService(s3Client, extract.NewExtractor(), emb, knowledgeRepo, vectorRepo, service.BulkConfig{
		Folder:      e2eFolder,
		MaxFiles:    10,
		TitlePrefix: "Voyagers: ",
		Tags:        []string{"voyagers"},
	}, logger)

	return server.NewRouter(server.RouterConfig{
		Logger:            logger,
		MaxBodyBytes:      1 << 20,
		ChatHandler:       handlers.NewChatHandler(chatSvc),
		SearchHandler:     handlers.NewSearchHandler(searchSvc),
		IngestHandler:     handlers.NewIngestHandler(ingestSvc),
		BulkHandler:       handlers.NewBulkHandler(bulkSvc, "Voyagers", e2eFolder),
		FederationHandler: handlers.NewFederationHandler(federationSvc),
		BucketHandler:     handlers.NewBucketHandler(service.NewBucketService(s3Client)),
	})
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Response is a raw HTTP exchange with the server.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (e *E2ETestEnv) Get(path string) *Response {
	return e.Do(http.MethodGet, path, nil)
}

func (e *E2ETestEnv) Post(path string, body any) *Response {
	return e.Do(http.MethodPost, path, body)
}

// Do performs a request and fails the test on transport errors only.
func (e *E2ETestEnv) Do(method, path string, body any) *Response {
	e.T.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			e.T.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reqBody)
	if err != nil {
		e.T.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		e.T.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		e.T.Fatalf("failed to read body: %v", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}
}

// RunCLI runs the federation client in-process against the test server.
func (e *E2ETestEnv) RunCLI(args ...string) (string, error) {
	root := client.NewRootCmd("e2e")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--api-url", e.Server.URL))
	err := root.ExecuteContext(e.Ctx)
	return out.String(), err
}

// UploadChunk writes one object under the bulk folder.
func (e *E2ETestEnv) UploadChunk(name, content string) {
	e.T.Helper()
	key := e2eFolder + "/" + name
	if err := e.S3Client.Put(e.Ctx, key, []byte(content), "text/markdown"); err != nil {
		e.T.Fatalf("failed to upload %s: %v", key, err)
	}
}

// CountRows returns the number of rows in table.
func (e *E2ETestEnv) CountRows(table string) int {
	e.T.Helper()
	var n int
	if err := e.Pool.QueryRow(e.Ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		e.T.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
