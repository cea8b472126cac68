package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorResponse represents an error API response. Success is set only by
// routes whose clients read a success flag on every response.
type ErrorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// FlaggedError writes an error JSON response carrying "success": false.
func FlaggedError(w http.ResponseWriter, status int, message string) {
	failed := false
	JSON(w, status, ErrorResponse{Success: &failed, Error: message})
}

// DecodeJSON reads the request body into v. An empty body leaves v untouched;
// anything after the first JSON value other than whitespace is rejected.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", errTrailingData)
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON value")
