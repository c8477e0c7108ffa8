package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"focusflow/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps taxonomy errors to status codes. Errors outside the
// taxonomy are storage/internal failures: the detail is logged and the client
// only sees the fallback message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	msg := fallback
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrGoalLimit),
		errors.Is(err, apperr.ErrUpstreamTimeout),
		errors.Is(err, apperr.ErrUpstreamCanceled):
		msg = err.Error()
	default:
		logger.Error(fallback, zap.Error(err))
	}
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"error": msg})
}
