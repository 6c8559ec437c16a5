// Package camera captures still images from a video source and hands them
// to the upload workflow as in-memory files.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/media"
	"go.uber.org/zap"
)

// VideoSource is a live camera feed.
type VideoSource interface {
	// Start opens the device. It returns once the first frame can be read.
	Start(ctx context.Context) error
	// Frame returns the most recent frame.
	Frame() (image.Image, error)
	// Stop releases the device.
	Stop() error
}

// FrameCapture turns a frame into an in-memory file.
type FrameCapture interface {
	Capture(frame image.Image) (media.FileHandle, error)
}

// Phase is the phase of the camera workflow.
type Phase int

const (
	Idle Phase = iota
	Streaming
	Captured
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Captured:
		return "captured"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

var (
	// ErrNotStreaming is returned by Capture before Start.
	ErrNotStreaming = errors.New("camera is not streaming")

	// ErrNothingCaptured is returned by Use before a frame was captured.
	ErrNothingCaptured = errors.New("no image captured")

	// ErrClosed is returned by operations after Close.
	ErrClosed = errors.New("camera closed")
)

// State is a snapshot of the camera workflow.
type State struct {
	Phase     Phase  `json:"phase"`
	Streaming bool   `json:"streaming"`
	FileName  string `json:"file_name,omitempty"`
	Size      int    `json:"size,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Camera is the capture workflow: Idle -> Streaming -> Captured.
// Captured images stay in memory; nothing is persisted or submitted.
type Camera struct {
	mu      sync.Mutex
	source  VideoSource
	capture FrameCapture
	logger  *zap.Logger

	phase     Phase
	image     *media.FileHandle
	errText   string
	streaming bool
	starting  bool
	closed    bool
}

// New creates a camera workflow over source.
func New(source VideoSource, capture FrameCapture, logger *zap.Logger) *Camera {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Camera{
		source:  source,
		capture: capture,
		logger:  logger.With(zap.String("workflow", "camera")),
	}
}

// Start opens the video source. Starting a streaming camera is a no-op.
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.streaming || c.starting {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	c.mu.Unlock()

	err := c.source.Start(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.starting = false
	if c.closed {
		if err == nil {
			_ = c.source.Stop()
		}
		return ErrClosed
	}
	if err != nil {
		c.phase = Failed
		c.errText = fmt.Sprintf("error accessing the camera: %v", err)
		c.logger.Warn("camera start failed", zap.Error(err))
		return fmt.Errorf("starting camera: %w", err)
	}
	c.streaming = true
	if c.image == nil {
		c.phase = Streaming
	}
	c.errText = ""
	return nil
}

// Capture grabs the current frame. Capturing again replaces the previous image.
func (c *Camera) Capture() (media.FileHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return media.FileHandle{}, ErrClosed
	}
	if !c.streaming {
		return media.FileHandle{}, ErrNotStreaming
	}

	frame, err := c.source.Frame()
	if err != nil {
		c.errText = fmt.Sprintf("error reading frame: %v", err)
		return media.FileHandle{}, fmt.Errorf("reading frame: %w", err)
	}
	file, err := c.capture.Capture(frame)
	if err != nil {
		c.errText = fmt.Sprintf("error capturing image: %v", err)
		return media.FileHandle{}, fmt.Errorf("capturing frame: %w", err)
	}

	c.phase = Captured
	c.image = &file
	c.errText = ""
	c.logger.Debug("frame captured", zap.String("file", file.Name), zap.Int("size", file.Size()))
	return file, nil
}

// Use returns the captured image for the upload workflow.
func (c *Camera) Use() (media.FileHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.image == nil {
		return media.FileHandle{}, ErrNothingCaptured
	}
	return *c.image, nil
}

// State returns a snapshot of the workflow.
func (c *Camera) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Phase: c.phase, Streaming: c.streaming, Error: c.errText}
	if c.image != nil {
		s.FileName = c.image.Name
		s.Size = c.image.Size()
	}
	return s
}

// Stop releases the video source and keeps the captured image.
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.streaming {
		return nil
	}
	c.streaming = false
	if c.image == nil {
		c.phase = Idle
	}
	if err := c.source.Stop(); err != nil {
		return fmt.Errorf("stopping camera: %w", err)
	}
	return nil
}

// Close stops the camera and drops the captured image.
func (c *Camera) Close() error {
	err := c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.image = nil
	return err
}

// ErrNoDevice is returned by NoSource.
var ErrNoDevice = errors.New("no camera device configured")

// NoSource is the VideoSource used when no camera is configured.
type NoSource struct{}

func (NoSource) Start(context.Context) error { return ErrNoDevice }
func (NoSource) Frame() (image.Image, error)  { return nil, ErrNoDevice }
func (NoSource) Stop() error                  { return nil }
