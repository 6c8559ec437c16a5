// Package media holds the in-memory file handle passed between the camera,
// the workflows and the remote client.
package media

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// FileHandle is image or binary content selected for upload.
type FileHandle struct {
	Name        string
	ContentType string
	Data        []byte
}

// FromPath reads a file from disk into a handle.
func FromPath(path string) (FileHandle, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided file path for upload
	if err != nil {
		return FileHandle{}, fmt.Errorf("could not read file: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes wraps raw content. The content type is sniffed from the data.
func FromBytes(name string, data []byte) (FileHandle, error) {
	if name == "" {
		return FileHandle{}, errors.New("file name is required")
	}
	if len(data) == 0 {
		return FileHandle{}, fmt.Errorf("file %s is empty", name)
	}
	return FileHandle{
		Name:        filepath.Base(name),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// IsZero reports whether no file has been set.
func (f FileHandle) IsZero() bool {
	return f.Name == "" && len(f.Data) == 0
}

// Size returns the content length in bytes.
func (f FileHandle) Size() int {
	return len(f.Data)
}
