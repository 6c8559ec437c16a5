package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/shell"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"go.uber.org/zap"
)

// FaceMatchHandler handles the face match and location update endpoints.
type FaceMatchHandler struct {
	shell  *shell.Shell
	logger *zap.Logger
}

// NewFaceMatchHandler creates a new face match handler.
func NewFaceMatchHandler(sh *shell.Shell, logger *zap.Logger) *FaceMatchHandler {
	return &FaceMatchHandler{shell: sh, logger: logger}
}

type locationRequest struct {
	Location string `json:"location"`
}

// Match runs a face match for the posted photo.
func (h *FaceMatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	file, err := readFormFile(r, constants.MatchFieldName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := ensureScreen(r.Context(), h.shell, shell.PathFaceMatch); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	match, err := h.shell.Match()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if err := match.Run(r.Context(), file); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Retry runs the last face match again.
func (h *FaceMatchHandler) Retry(w http.ResponseWriter, r *http.Request) {
	match, err := h.shell.Match()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if err := match.Retry(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}

// Filter returns the match rows whose name contains the q parameter.
func (h *FaceMatchHandler) Filter(w http.ResponseWriter, r *http.Request) {
	match, err := h.shell.Match()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, match.Filter(r.URL.Query().Get("q")))
}

// UpdateLocation opens the location edit for a match row and submits the
// posted location. On success the face match screen is shown again with the
// row patched; on failure the location screen stays open with the error.
func (h *FaceMatchHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := koya.MatchID(chi.URLParam(r, "id"))

	req, ok := decodeJSON[locationRequest](w, r)
	if !ok {
		return
	}

	match, err := h.shell.Match()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	edit := match.LocationEdit()
	if edit == nil || edit.TargetID() != id {
		if edit, err = match.OpenLocationEdit(id); err != nil {
			respondWorkflowError(w, h.logger, err)
			return
		}
	}
	if err := h.shell.Navigate(r.Context(), shell.PathLocationUpdate); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	edit.SetDraft(req.Location)
	if err := edit.Submit(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if edit.State().Phase == workflow.LocationDone {
		if err := h.shell.Navigate(r.Context(), shell.PathFaceMatch); err != nil {
			respondWorkflowError(w, h.logger, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}
