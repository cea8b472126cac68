package edge

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_PreservesStatusHeadersBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	resp, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/chat",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, []string{"a", "b"}, resp.MultiValueHeaders["X-Multi"])
	assert.Equal(t, `{"error":"boom"}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
}

func TestAdapter_DefaultStatus(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	resp, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestAdapter_BinaryBodyIsBase64(t *testing.T) {
	payload := []byte{0xff, 0xfe, 0x00}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})

	resp, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{Path: "/"})
	require.NoError(t, err)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), resp.Body)
}

func TestNewRequest(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/api/list-bucket",
		QueryStringParameters: map[string]string{"prefix": "voyagers-chunks/"},
		Headers:               map[string]string{"Content-Type": "application/json", "Host": "api.example.com"},
		Body:                  base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
		IsBase64Encoded:       true,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "gw-123",
			Identity:  events.APIGatewayRequestIdentity{SourceIP: "198.51.100.4"},
		},
	}

	req, err := NewRequest(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/list-bucket", req.URL.Path)
	assert.Equal(t, "voyagers-chunks/", req.URL.Query().Get("prefix"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "api.example.com", req.Host)
	assert.Equal(t, "gw-123", req.Header.Get("X-Request-ID"))
	assert.Equal(t, "198.51.100.4", req.RemoteAddr)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestNewRequest_MultiValueQuery(t *testing.T) {
	req, err := NewRequest(context.Background(), events.APIGatewayProxyRequest{
		Path:                            "/x",
		MultiValueQueryStringParameters: map[string][]string{"tag": {"a", "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, req.URL.Query()["tag"])
	assert.Equal(t, http.MethodGet, req.Method)
}

func TestNewRequest_BadBase64(t *testing.T) {
	_, err := NewRequest(context.Background(), events.APIGatewayProxyRequest{
		Path:            "/",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	assert.Error(t, err)
}
