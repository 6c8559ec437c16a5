package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/media"
	"github.com/kozaktomas/koya-pay/internal/shell"
	"go.uber.org/zap"
)

// UploadHandler handles the photo upload endpoint.
type UploadHandler struct {
	shell  *shell.Shell
	logger *zap.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(sh *shell.Shell, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{shell: sh, logger: logger}
}

// errBadForm marks a multipart body that could not be parsed.
var errBadForm = errors.New("failed to parse multipart form")

// readFormFile reads a multipart file field into memory.
// A missing field, or a body that is not multipart at all, yields a zero
// FileHandle and no error so the workflow reports the missing file.
func readFormFile(r *http.Request, field string) (media.FileHandle, error) {
	err := r.ParseMultipartForm(constants.MaxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		return media.FileHandle{}, nil
	}
	if err != nil {
		return media.FileHandle{}, errBadForm
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return media.FileHandle{}, nil
	}
	if err != nil {
		return media.FileHandle{}, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	return readPart(file, header)
}

func readPart(file multipart.File, header *multipart.FileHeader) (media.FileHandle, error) {
	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize+1))
	if err != nil {
		return media.FileHandle{}, fmt.Errorf("failed to read file: %s", header.Filename)
	}
	if len(data) > constants.MaxUploadSize {
		return media.FileHandle{}, fmt.Errorf("file too large: %s", header.Filename)
	}
	return media.FromBytes(header.Filename, data)
}

// Upload selects the posted file on the upload screen and submits it.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := readFormFile(r, constants.UploadFieldName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := ensureScreen(r.Context(), h.shell, shell.PathPhotoUpload, shell.PathHome); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}
	upload, err := h.shell.Upload()
	if err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	if !file.IsZero() {
		upload.Select(file)
	}
	if err := upload.Submit(r.Context()); err != nil {
		respondWorkflowError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.shell.Snapshot())
}
