// Package constants provides shared constants used across the codebase.
package constants

// Web shell constants
const (
	// DefaultWebPort is the port the local shell listens on
	DefaultWebPort = 8080

	// DefaultWebHost is the address the local shell binds to
	DefaultWebHost = "127.0.0.1"
)

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (16MB, the limit the service enforces)
	MaxUploadSize = 16 << 20
)
