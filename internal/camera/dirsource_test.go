package camera

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestIsFrameFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"snap.jpg", true},
		{"snap.JPEG", true},
		{"snap.png", true},
		{"snap.bmp", true},
		{"snap.webp", true},
		{"snap.txt", false},
		{".snap.png", false},
		{"snap", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFrameFile(tt.name))
		})
	}
}

func TestDirSource_ExistingFrame(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "snap.png"), solid(8, 6, color.White))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	src := NewDirSource(dir, nil)
	require.NoError(t, src.Start(context.Background()))
	defer src.Stop()

	img, err := src.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
}

func TestDirSource_WaitsForFirstFrame(t *testing.T) {
	dir := t.TempDir()
	src := NewDirSource(dir, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Start(context.Background())
	}()

	// give the watcher time to be registered before the write
	time.Sleep(50 * time.Millisecond)
	writePNG(t, filepath.Join(dir, "first.png"), solid(4, 4, color.Black))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after first frame was written")
	}
	defer src.Stop()

	img, err := src.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestDirSource_StartCancelled(t *testing.T) {
	src := NewDirSource(t.TempDir(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := src.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = src.Frame()
	assert.ErrorIs(t, err, ErrNotStreaming)
}

func TestDirSource_MissingDir(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, src.Start(context.Background()))
}

func TestDirSource_FrameAfterStop(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "snap.png"), solid(2, 2, color.White))

	src := NewDirSource(dir, nil)
	require.NoError(t, src.Start(context.Background()))
	require.NoError(t, src.Stop())
	require.NoError(t, src.Stop())

	_, err := src.Frame()
	assert.ErrorIs(t, err, ErrNotStreaming)
}

func TestDirSource_WithCamera(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "snap.png"), solid(100, 50, color.White))

	cam := New(NewDirSource(dir, nil), NewPNGCapture(20, 10), nil)
	require.NoError(t, cam.Start(context.Background()))

	file, err := cam.Capture()
	require.NoError(t, err)

	img, _, err := image.Decode(bytesReader(file.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	require.NoError(t, cam.Close())
}
