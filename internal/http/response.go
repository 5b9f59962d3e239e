package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorBody is the error shape clients consume: timestamp, status, a
// short label, a human-readable message, the request path, and for
// validation failures a field name to message map.
type errorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, label, message string) {
	writeJSON(w, status, errorBody{
		Timestamp: time.Now(),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
		Error:     "Validation Error",
		Message:   "Validation failed",
		Path:      r.URL.Path,
		Errors:    fieldErrors,
	})
}
