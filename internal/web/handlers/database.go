package handlers

import (
	"net/http"

	"github.com/kozaktomas/koya-pay/internal/shell"
	"go.uber.org/zap"
)

// DatabaseHandler handles the database listing endpoints.
type DatabaseHandler struct {
	shell  *shell.Shell
	logger *zap.Logger
}

// NewDatabaseHandler creates a new database handler.
func NewDatabaseHandler(sh *shell.Shell, logger *zap.Logger) *DatabaseHandler {
	return &DatabaseHandler{shell: sh, logger: logger}
}

type appendEntryRequest struct {
	Entry string `json:"entry"`
}

// Append stages the posted entry and appends it, then returns the reloaded list.
func (h *DatabaseHandler) Append(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[appendEntryRequest](w, r)
	if !ok {
		return
	}

	if err := ensureScreen(r.Context(), h.shell, shell.PathDatabase); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	listing, err := h.shell.Listing()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	listing.SetPending(req.Entry)
	if err := listing.Append(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Reload fetches the entries again.
func (h *DatabaseHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := ensureScreen(r.Context(), h.shell, shell.PathDatabase); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	listing, err := h.shell.Listing()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if err := listing.Load(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}
