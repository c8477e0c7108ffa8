// Package apperr defines the error taxonomy shared by the store, the
// services and the HTTP layer. Handlers translate these into status codes;
// anything unrecognized is a storage/internal failure and maps to 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound deliberately covers both "does not exist" and "owned by
	// somebody else" so responses never leak whether a row exists.
	ErrNotFound = errors.New("not found or not authorized")

	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("already exists")

	// ErrGoalLimit is returned when a category already holds the maximum
	// number of goals.
	ErrGoalLimit = errors.New("goal limit reached for category")

	// ErrUpstreamTimeout and ErrUpstreamCanceled distinguish a timed-out
	// text-generation call from one the user aborted.
	ErrUpstreamTimeout  = errors.New("ai request timed out")
	ErrUpstreamCanceled = errors.New("ai request canceled")
)

// Validationf wraps ErrValidation with a user-facing detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error from the taxonomy to a response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrGoalLimit):
		return http.StatusConflict
	case errors.Is(err, ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrUpstreamCanceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
