package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every JSON error from the HTTP API.
type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// RequireMethod reports whether r uses method, treating HEAD as GET.
// On a mismatch it sets Allow and writes a 405 JSON error.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
	return false
}

// WriteJSON encodes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes {"status":"error","error":message}.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, errorResponse{Status: "error", Error: message})
}
