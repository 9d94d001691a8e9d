// Package http provides the HTTP server and its JSON handlers.
//
// This file builds responses: JSON bodies, file downloads and the mapping
// from ledger errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/store"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps a ledger error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as JSON. Server-side failures are logged and their
// details withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := ErrorBody{Error: err.Error()}

	var verr *core.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}

	if status == http.StatusInternalServerError {
		logger := log.FromContext(r.Context())
		if errors.Is(err, store.ErrParse) {
			logger.ErrorContext(r.Context(), "Stored data is malformed", log.FieldError, err)
			body.Error = "stored data is malformed"
		} else {
			logger.ErrorContext(r.Context(), "Request failed", log.FieldError, err)
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}

// writeDownload sends a file attachment.
func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorBody{Error: "not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{Error: "method not allowed"})
}
