package handler

// RESPONSE HELPERS:
// Successful reads answer JSON, successful writes and every error answer a
// short plain-text message. Domain errors are mapped to status codes here
// and only here:
//
//	apperror.ErrValidation → 400
//	apperror.ErrNotFound   → 404
//	apperror.ErrConflict   → 409 (no server route produces it today; the
//	                               provisioning race resolves to "welcome back")
//	apperror.ErrStore      → 500 (opaque message, cause already logged)
//	anything else          → 500 "An internal error occurred"

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/taskboard/internal/apperror"
)

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeText sends a plain-text message.
func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// writeError maps a domain error to its HTTP status and sends its message.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Never echo raw errors: they can carry SQL or connection details.
		writeText(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	}

	writeText(w, status, appErr.Message)
}

// queryUserID reads the required user_id query parameter.
func queryUserID(r *http.Request, missingMessage string) (int64, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return 0, apperror.ValidationFailed("user_id", missingMessage)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("user_id", "User ID must be an integer")
	}
	return id, nil
}

// pathTaskID reads the {task_id} URL parameter.
func pathTaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "task_id")
	if raw == "" {
		return 0, apperror.ValidationFailed("task_id", "Task ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("task_id", "Task ID must be an integer")
	}
	return id, nil
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return nil
}
