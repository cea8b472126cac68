// Package edge runs an http.Handler behind API Gateway proxy events.
package edge

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

type Adapter struct {
	handler http.Handler
}

func New(handler http.Handler) *Adapter {
	return &Adapter{handler: handler}
}

// Handle is the Lambda entry point.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := NewRequest(ctx, event)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	w := newResponseWriter()
	a.handler.ServeHTTP(w, req)
	return w.proxyResponse(), nil
}

// NewRequest converts a proxy event into an *http.Request bound to ctx.
func NewRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode request body: %w", err)
		}
		body = decoded
	}

	path := event.Path
	if path == "" {
		path = "/"
	}
	u := &url.URL{Path: path, RawQuery: queryString(event).Encode()}

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, vs := range event.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	req.RemoteAddr = event.RequestContext.Identity.SourceIP
	if id := event.RequestContext.RequestID; id != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", id)
	}

	return req, nil
}

func queryString(event events.APIGatewayProxyRequest) url.Values {
	q := url.Values{}
	for k, vs := range event.MultiValueQueryStringParameters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, v := range event.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}
	return q
}

type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(w.header)),
		MultiValueHeaders: make(map[string][]string, len(w.header)),
	}
	for k, vs := range w.header {
		resp.Headers[k] = strings.Join(vs, ",")
		resp.MultiValueHeaders[k] = append([]string(nil), vs...)
	}

	raw := w.body.Bytes()
	if utf8.Valid(raw) {
		resp.Body = string(raw)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(raw)
		resp.IsBase64Encoded = true
	}
	return resp
}
