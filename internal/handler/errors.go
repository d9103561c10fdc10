package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foodgram/backend/internal/domain"
)

// ErrorDetail is the body of every non-2xx JSON response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondErr maps a service error onto its HTTP status and error code.
// Anything that is not a known domain error is logged and reported as 500
// without leaking the internal message.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		re *domain.ReferenceError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, "validation_error", ve.Message())
	case errors.As(err, &re):
		writeError(w, r, http.StatusBadRequest, "reference_not_found", re.Message())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrSelfSubscription):
		writeError(w, r, http.StatusBadRequest, "self_subscription", "cannot subscribe to yourself")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, http.StatusBadRequest, "conflict", "already exists")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "forbidden", "permission denied")
	default:
		slog.ErrorContext(r.Context(), "internal error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requestErr reports a body or parameter that could not be decoded.
func requestErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		tooLarge *http.MaxBytesError
		ve       *domain.ValidationError
	)
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large")
		return
	}
	if errors.As(err, &ve) {
		writeError(w, r, http.StatusBadRequest, "validation_error", ve.Message())
		return
	}
	writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
}
