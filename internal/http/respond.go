package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tripsplit/internal/core"
	"tripsplit/internal/services"
	"tripsplit/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps service and core errors onto HTTP statuses.
// Validation failures surface their message; an unbalanced ledger is an
// internal invariant violation, so the client gets a generic 500 and the
// detail goes to the log.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrUnbalancedLedger):
		slog.ErrorContext(r.Context(), "Balance invariant violated", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	case errors.Is(err, services.ErrMemberHasExpenses):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrEmptyParticipants),
		errors.Is(err, core.ErrDuplicateParticipant),
		errors.Is(err, core.ErrUnknownMember),
		errors.Is(err, core.ErrSplitMismatch),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, services.ErrAmbiguousSplits),
		errors.Is(err, services.ErrEmptyTripName),
		errors.Is(err, services.ErrEmptyMemberName):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
