package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mercadinho-pos/internal/app"
	"mercadinho-pos/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondServiceError translates a service-layer failure into the
// caller-visible status for its error class. Anything unrecognized is an
// internal storage failure: logged with the request id, reported as 500
// without leaking details.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrInvalidRequest):
		writeError(w, r, err.Error(), "INVALID_REQUEST", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	default:
		log.Printf("internal error [%s]: %v", requestIDFromContext(r.Context()), err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON parses the request body into v, answering 400 on malformed
// input. Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "malformed JSON body", "INVALID_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
