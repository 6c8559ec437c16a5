package handlers

import (
	"net/http"

	"github.com/kozaktomas/koya-pay/internal/shell"
	"go.uber.org/zap"
)

// CameraHandler handles the camera endpoints.
type CameraHandler struct {
	shell  *shell.Shell
	logger *zap.Logger
}

// NewCameraHandler creates a new camera handler.
func NewCameraHandler(sh *shell.Shell, logger *zap.Logger) *CameraHandler {
	return &CameraHandler{shell: sh, logger: logger}
}

// Start opens the camera, showing the camera screen first if needed.
func (h *CameraHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := ensureScreen(r.Context(), h.shell, shell.PathCamera); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	cam, err := h.shell.Camera()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if err := cam.Start(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Capture grabs the current frame.
func (h *CameraHandler) Capture(w http.ResponseWriter, r *http.Request) {
	cam, err := h.shell.Camera()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if _, err := cam.Capture(); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Use hands the captured image to the upload screen without submitting it.
func (h *CameraHandler) Use(w http.ResponseWriter, r *http.Request) {
	if _, err := h.shell.UseCapture(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Stop releases the camera and keeps the captured image.
func (h *CameraHandler) Stop(w http.ResponseWriter, r *http.Request) {
	cam, err := h.shell.Camera()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if err := cam.Stop(); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}
