package media

import (
	"os"
	"path/filepath"
	"testing"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFromBytes(t *testing.T) {
	f, err := FromBytes("dir/face.png", pngHeader)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}

	if f.Name != "face.png" {
		t.Errorf("expected name 'face.png', got '%s'", f.Name)
	}

	if f.ContentType != "image/png" {
		t.Errorf("expected content type 'image/png', got '%s'", f.ContentType)
	}

	if f.Size() != len(pngHeader) {
		t.Errorf("expected size %d, got %d", len(pngHeader), f.Size())
	}
}

func TestFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
	}{
		{"empty name", "", pngHeader},
		{"empty data", "face.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromBytes(tt.fileName, tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selfie.png")
	if err := os.WriteFile(path, pngHeader, 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	f, err := FromPath(path)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}

	if f.Name != "selfie.png" {
		t.Errorf("expected name 'selfie.png', got '%s'", f.Name)
	}

	if _, err := FromPath(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsZero(t *testing.T) {
	var f FileHandle
	if !f.IsZero() {
		t.Error("expected zero handle")
	}

	f.Name = "x.png"
	if f.IsZero() {
		t.Error("expected non-zero handle")
	}
}
