package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bandhub/backstage/internal/apperror"
)

// ErrorResponse is the standard error body for every API endpoint. For
// enum validation failures, AllowedValues enumerates the valid set so
// clients can render a picker without hardcoding it.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Field         string   `json:"field,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be set before
// the first body write; the order here is the only correct one.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status. Validation and auth
// errors carry their own message; anything unrecognised becomes a
// generic 500 so store internals never leak into response bodies.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:         errorType,
			Message:       appErr.Message,
			Field:         appErr.Field,
			AllowedValues: appErr.Allowed,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON decodes a request body, insisting on the JSON content type
// the API contract requires for write bodies.
func decodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && ct != "application/json" &&
		!hasJSONPrefix(ct) {
		return apperror.ValidationFailed("Content-Type", "Content-Type must be application/json")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

func hasJSONPrefix(ct string) bool {
	const prefix = "application/json;"
	return len(ct) >= len(prefix) && ct[:len(prefix)] == prefix
}

// NotImplemented answers for routes the API advertises but has not
// built yet.
func NotImplemented(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotImplemented, ErrorResponse{
		Error:   "not_implemented",
		Message: "This endpoint is not implemented yet",
	})
}

// NotFound is the fallback for unmatched routes, keeping 404 bodies
// in the standard error shape instead of chi's plain-text default.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "Route not found",
	})
}
