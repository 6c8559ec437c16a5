package handlers

import (
	"context"
	"net/http"

	"github.com/kozaktomas/koya-pay/internal/shell"
	"go.uber.org/zap"
)

// ShellHandler serves the navigation endpoints.
type ShellHandler struct {
	shell  *shell.Shell
	logger *zap.Logger
}

// NewShellHandler creates a new shell handler.
func NewShellHandler(sh *shell.Shell, logger *zap.Logger) *ShellHandler {
	return &ShellHandler{shell: sh, logger: logger}
}

type navigateRequest struct {
	Path string `json:"path"`
}

// Screens lists the navigation links.
func (h *ShellHandler) Screens(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, shell.Screens())
}

// Screen returns the visible screen.
func (h *ShellHandler) Screen(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Navigate switches to another screen.
func (h *ShellHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[navigateRequest](w, r)
	if !ok {
		return
	}
	if req.Path == "" {
		respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := h.shell.Navigate(r.Context(), req.Path); err != nil {
		h.logger.Debug("navigate refused", zap.String("path", sanitizeForLog(req.Path)), zap.Error(err))
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// ensureScreen navigates to path unless one of the given paths is already shown.
func ensureScreen(ctx context.Context, sh *shell.Shell, path string, accepted ...string) error {
	current := sh.Current()
	if current == path {
		return nil
	}
	for _, p := range accepted {
		if current == p {
			return nil
		}
	}
	return sh.Navigate(ctx, path)
}
