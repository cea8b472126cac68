package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestCORS_SetsHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/list-bucket", nil)

	CORS(okHandler("ok")).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, path := range []string{"/api/chat", "/api/federation", "/anything"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, path, nil)

		CORS(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
	assert.False(t, called)
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})
	w := httptest.NewRecorder()

	RequestID(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()

	RequestID(next).ServeHTTP(w, r)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestAccessLog_Fields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestID(AccessLog(zap.New(core))(okHandler("hello")))

	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/chat", fields["path"])
	assert.EqualValues(t, 200, fields["status"])
	assert.EqualValues(t, 5, fields["bytes"])
	assert.Equal(t, "203.0.113.7", fields["remote_addr"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestAccessLog_ErrorLevelOn5xx(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	AccessLog(zap.New(core))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
}

func TestMaxBodyBytes(t *testing.T) {
	h := MaxBodyBytes(4)(okHandler("ok"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxBodyBytes_Disabled(t *testing.T) {
	w := httptest.NewRecorder()
	MaxBodyBytes(0)(okHandler("ok")).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 1<<16))))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSentry_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	Sentry(okHandler("ok")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/list-bucket", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSentry_RepanicsAfterCapture(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() {
		Sentry(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestHTTPStatusToSpanStatus(t *testing.T) {
	assert.Equal(t, sentry.SpanStatusOK, httpStatusToSpanStatus(200))
	assert.Equal(t, sentry.SpanStatusResourceExhausted, httpStatusToSpanStatus(413))
	assert.Equal(t, sentry.SpanStatusInvalidArgument, httpStatusToSpanStatus(400))
	assert.Equal(t, sentry.SpanStatusInternalError, httpStatusToSpanStatus(500))
	assert.Equal(t, sentry.SpanStatusUnavailable, httpStatusToSpanStatus(503))
}
