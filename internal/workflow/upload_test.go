package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_NoFileSelected(t *testing.T) {
	client := &fakeUploader{}
	u := NewUpload(client, nil)
	defer u.Dispose()

	err := u.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	state := u.State()
	assert.Equal(t, UploadFailed, state.Status)
	assert.Contains(t, state.Message, "select a file")
	assert.Equal(t, int32(0), client.calls.Load(), "no network call expected")
}

func TestUpload_Success(t *testing.T) {
	client := &fakeUploader{result: &koya.MessageResponse{Message: "File uploaded successfully"}}
	u := NewUpload(client, nil)
	defer u.Dispose()

	u.Select(testFile(t, "face.png"))
	assert.Equal(t, UploadIdle, u.State().Status, "selecting a file keeps Idle")
	assert.Equal(t, "face.png", u.State().FileName)

	require.NoError(t, u.Submit(context.Background()))

	state := u.State()
	assert.Equal(t, UploadSucceeded, state.Status)
	assert.Equal(t, "File uploaded successfully", state.Message)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestUpload_Failure(t *testing.T) {
	client := &fakeUploader{err: &koya.RequestError{Op: "upload", StatusCode: 400, Message: "No selected file"}}
	u := NewUpload(client, nil)
	defer u.Dispose()

	u.Select(testFile(t, "face.png"))
	err := u.Submit(context.Background())

	var reqErr *koya.RequestError
	require.True(t, errors.As(err, &reqErr))

	state := u.State()
	assert.Equal(t, UploadFailed, state.Status)
	assert.Equal(t, "error uploading file: No selected file", state.Message)
}

func TestUpload_RetryAfterFailure(t *testing.T) {
	client := &fakeUploader{err: errTransport}
	u := NewUpload(client, nil)
	defer u.Dispose()

	u.Select(testFile(t, "face.png"))
	require.Error(t, u.Submit(context.Background()))
	assert.Equal(t, UploadFailed, u.State().Status)

	// Re-selecting returns to Idle and clears the message
	u.Select(testFile(t, "other.png"))
	state := u.State()
	assert.Equal(t, UploadIdle, state.Status)
	assert.Empty(t, state.Message)

	client.err = nil
	client.result = &koya.MessageResponse{Message: "ok"}
	require.NoError(t, u.Submit(context.Background()))
	assert.Equal(t, UploadSucceeded, u.State().Status)
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestUpload_SubmitWhileUploading(t *testing.T) {
	g := newGate()
	client := &fakeUploader{gate: g, result: &koya.MessageResponse{Message: "ok"}}
	u := NewUpload(client, nil)
	defer u.Dispose()

	u.Select(testFile(t, "face.png"))

	done := make(chan error, 1)
	go func() { done <- u.Submit(context.Background()) }()
	<-g.entered

	assert.Equal(t, UploadUploading, u.State().Status)

	for range 3 {
		assert.ErrorIs(t, u.Submit(context.Background()), ErrBusy)
	}

	close(g.release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), client.calls.Load(), "at most one upload in flight")
	assert.Equal(t, UploadSucceeded, u.State().Status)
}

func TestUpload_DisposeDiscardsResult(t *testing.T) {
	g := newGate()
	client := &fakeUploader{gate: g, result: &koya.MessageResponse{Message: "ok"}}
	u := NewUpload(client, nil)

	u.Select(testFile(t, "face.png"))

	done := make(chan error, 1)
	go func() { done <- u.Submit(context.Background()) }()
	<-g.entered

	u.Dispose()

	assert.ErrorIs(t, <-done, ErrDisposed)
	assert.Equal(t, UploadUploading, u.State().Status, "state is not mutated after dispose")
	assert.ErrorIs(t, u.Submit(context.Background()), ErrDisposed)
}

func TestUploadStatus_String(t *testing.T) {
	tests := []struct {
		status   UploadStatus
		expected string
	}{
		{UploadIdle, "idle"},
		{UploadUploading, "uploading"},
		{UploadSucceeded, "succeeded"},
		{UploadFailed, "failed"},
		{UploadStatus(42), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.status.String())
	}
}
