package middleware

import "net/http"

const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// CORS sets the permissive cross-origin headers on every response and
// answers preflight requests itself with an empty 200.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
