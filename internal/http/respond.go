// JSON response writing and error classification.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kudi/internal/core"
	"kudi/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain failures to status codes. Anything unclassified
// is a 500 with an opaque body; details go to the log only.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: "transaction not found"})
	case errors.Is(err, core.ErrExportTooLarge):
		respondJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "export exceeds the row cap; narrow the date range"})
	case errors.Is(err, core.ErrStoreUnavailable):
		slog.ErrorContext(r.Context(), "Store unavailable", "url", r.URL.Path, "error", err)
		respondJSON(w, http.StatusServiceUnavailable, errorBody{Error: "storage temporarily unavailable"})
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "url", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	respondJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
}
