package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kozaktomas/koya-pay/internal/camera"
	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/shell"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"go.uber.org/zap"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps workflow, shell and client errors to HTTP status codes.
func statusFor(err error) int {
	var reqErr *koya.RequestError
	switch {
	case workflow.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, shell.ErrUnknownRoute):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrDisposed),
		errors.Is(err, shell.ErrNotMounted),
		errors.Is(err, shell.ErrNoLocationEdit),
		errors.Is(err, workflow.ErrNoResults),
		errors.Is(err, camera.ErrNotStreaming),
		errors.Is(err, camera.ErrNothingCaptured),
		errors.Is(err, camera.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrUnknownMatch):
		return http.StatusNotFound
	case errors.Is(err, camera.ErrNoDevice):
		return http.StatusServiceUnavailable
	case koya.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.As(err, &reqErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWorkflowError answers with the status for err and its message.
func respondWorkflowError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	respondError(w, status, koya.Message(err))
}

// decodeJSON decodes the request body into T, answering 400 on failure.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return v, false
	}
	return v, true
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
