package server

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/everlightos/federation/internal/api"
	"github.com/everlightos/federation/internal/api/middleware"
	"github.com/everlightos/federation/internal/telemetry"
)

// HandlerFunc serves one route. The returned value is written as a 200 JSON
// body; a non-nil error becomes a 500.
type HandlerFunc func(r *http.Request) (any, error)

// Route binds a path prefix to a handler. Flagged routes add
// "success": false to their error bodies.
type Route struct {
	Prefix  string
	Handler HandlerFunc
	Flagged bool
}

// Dispatcher matches the request path against an ordered prefix table.
// The first matching route wins; unmatched paths get the banner.
type Dispatcher struct {
	routes []Route
	logger *zap.Logger
}

func NewDispatcher(routes []Route, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{routes: routes, logger: logger}
}

// Match returns the first route whose prefix the path starts with.
func (d *Dispatcher) Match(path string) (Route, bool) {
	for _, rt := range d.routes {
		if strings.HasPrefix(path, rt.Prefix) {
			return rt, true
		}
	}
	return Route{}, false
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := d.Match(r.URL.Path)
	if !ok {
		api.Text(w, http.StatusOK, Banner)
		return
	}

	body, err := d.invoke(rt, r)
	if err != nil {
		d.logger.Error("route failed",
			zap.String("route", rt.Prefix),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		telemetry.CaptureError(r.Context(), err)

		if rt.Flagged {
			api.FlaggedError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.JSON(w, http.StatusOK, body)
}

func (d *Dispatcher) invoke(rt Route, r *http.Request) (body any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			body = nil
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return rt.Handler(r)
}
