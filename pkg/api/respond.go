package api

import (
	"encoding/json"
	"net/http"
)

// listResponse is the envelope for collection endpoints.
type listResponse struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Next     *int             `json:"next"`
	Previous *int             `json:"previous"`
	Data     []map[string]any `json:"data"`
}

// errorResponse is the envelope for all error responses.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details []ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string, details ...ValidationError) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   code,
		Message: message,
		Details: details,
	})
}
