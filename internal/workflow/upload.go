package workflow

import (
	"context"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/media"
	"go.uber.org/zap"
)

// UploadStatus is the phase of the upload workflow.
type UploadStatus int

const (
	UploadIdle UploadStatus = iota
	UploadUploading
	UploadSucceeded
	UploadFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadUploading:
		return "uploading"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s UploadStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MsgSelectFile is shown when an upload is triggered without a file.
const MsgSelectFile = "select a file to upload"

// UploadState is a snapshot of the upload workflow.
type UploadState struct {
	SelectedFile *media.FileHandle `json:"-"`
	FileName     string            `json:"file_name,omitempty"`
	Status       UploadStatus      `json:"status"`
	Message      string            `json:"message,omitempty"`
}

// Upload is the photo upload workflow: Idle -> Uploading -> Succeeded | Failed.
type Upload struct {
	mu     sync.Mutex
	client Uploader
	logger *zap.Logger
	life   lifetime

	file    *media.FileHandle
	status  UploadStatus
	message string
}

// NewUpload creates an upload workflow in the Idle state.
func NewUpload(client Uploader, logger *zap.Logger) *Upload {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Upload{
		client: client,
		logger: logger.With(zap.String("workflow", "upload")),
		life:   newLifetime(),
	}
}

// Select stores the file to upload. A finished or failed upload returns to Idle;
// an upload in flight keeps the file it started with.
func (u *Upload) Select(file media.FileHandle) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.life.done() {
		return
	}

	u.file = &file
	if u.status == UploadSucceeded || u.status == UploadFailed {
		u.status = UploadIdle
		u.message = ""
	}
	u.logger.Debug("file selected", zap.String("file", file.Name), zap.Int("size", file.Size()))
}

// Submit uploads the selected file. Without a file the workflow fails locally
// with MsgSelectFile and no request is made. While an upload is in flight,
// Submit returns ErrBusy.
func (u *Upload) Submit(ctx context.Context) error {
	u.mu.Lock()
	if u.life.done() {
		u.mu.Unlock()
		return ErrDisposed
	}
	if u.status == UploadUploading {
		u.mu.Unlock()
		return ErrBusy
	}
	if u.file == nil || u.file.IsZero() {
		u.status = UploadFailed
		u.message = MsgSelectFile
		u.mu.Unlock()
		return &ValidationError{Field: "file", Message: MsgSelectFile}
	}
	file := *u.file
	u.status = UploadUploading
	u.message = ""
	u.mu.Unlock()

	u.logger.Debug("uploading", zap.String("file", file.Name))

	reqCtx, cancel := u.life.bind(ctx)
	defer cancel()
	result, err := u.client.Upload(reqCtx, file)

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.life.done() {
		u.logger.Debug("discarding upload result after dispose")
		return ErrDisposed
	}
	if err != nil {
		u.status = UploadFailed
		u.message = errorText("error uploading file", err)
		u.logger.Info("upload failed", zap.String("file", file.Name), zap.Error(err))
		return err
	}

	u.status = UploadSucceeded
	u.message = result.Message
	u.logger.Info("upload succeeded", zap.String("file", file.Name))
	return nil
}

// State returns a snapshot of the workflow.
func (u *Upload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()

	s := UploadState{Status: u.status, Message: u.message}
	if u.file != nil {
		f := *u.file
		s.SelectedFile = &f
		s.FileName = f.Name
	}
	return s
}

// Dispose tears the workflow down and cancels an upload in flight.
func (u *Upload) Dispose() {
	u.life.end()
}
