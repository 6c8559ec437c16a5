// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Remote service constants
const (
	// DefaultAPIURL is the base URL of the Koya Pay service when KOYA_API_URL is unset
	DefaultAPIURL = "http://localhost:5000/api"

	// DefaultRequestTimeout bounds a single request to the remote service
	DefaultRequestTimeout = 30 * time.Second

	// UploadFieldName is the multipart field carrying a photo for /upload
	UploadFieldName = "file"

	// MatchFieldName is the multipart field carrying a photo for /match
	MatchFieldName = "photo"
)

// Upload constants
const (
	// BatchUploadWorkers is the number of parallel upload workflows used by the CLI
	BatchUploadWorkers = 4
)

// Camera constants
const (
	// DefaultFrameWidth is the width of the capture canvas
	DefaultFrameWidth = 640

	// DefaultFrameHeight is the height of the capture canvas
	DefaultFrameHeight = 480

	// FrameDebounce is how long DirSource waits after a write before reading a snapshot
	FrameDebounce = 100 * time.Millisecond
)
