// Package shell is the navigation shell of the Koya Pay client. It maps a
// path to exactly one mounted screen workflow and tears the previous one down.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/camera"
	"github.com/kozaktomas/koya-pay/internal/media"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"go.uber.org/zap"
)

// Screen paths.
const (
	PathHome           = "/"
	PathPhotoUpload    = "/photo-upload"
	PathCamera         = "/camera"
	PathDatabase       = "/database"
	PathFaceMatch      = "/face-match"
	PathLocationUpdate = "/location-update"
)

var (
	// ErrUnknownRoute is returned by Navigate for a path with no screen.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrNoLocationEdit is returned when navigating to the location screen
	// without a location edit open on the face match screen.
	ErrNoLocationEdit = errors.New("no location edit open")

	// ErrNotMounted is returned by screen accessors when another screen is shown.
	ErrNotMounted = errors.New("screen not mounted")
)

// Kind identifies a screen.
type Kind string

const (
	KindUpload   Kind = "upload"
	KindCamera   Kind = "camera"
	KindDatabase Kind = "database"
	KindMatch    Kind = "face_match"
	KindLocation Kind = "location_update"
)

var routes = map[string]Kind{
	PathHome:           KindUpload,
	PathPhotoUpload:    KindUpload,
	PathCamera:         KindCamera,
	PathDatabase:       KindDatabase,
	PathFaceMatch:      KindMatch,
	PathLocationUpdate: KindLocation,
}

// Link is a navigation link in the header.
type Link struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

var links = []Link{
	{Title: "Home", Path: PathHome},
	{Title: "Database", Path: PathDatabase},
	{Title: "Upload Photo", Path: PathPhotoUpload},
	{Title: "Camera", Path: PathCamera},
	{Title: "Face Match", Path: PathFaceMatch},
}

// Client is the remote service as used by all screens.
type Client interface {
	workflow.Uploader
	workflow.EntryStore
	workflow.Matcher
}

// CameraFactory builds a fresh camera workflow each time the camera screen mounts.
type CameraFactory func() *camera.Camera

// Snapshot is the state of the visible screen.
type Snapshot struct {
	Path     string                  `json:"path"`
	Screen   Kind                    `json:"screen"`
	Upload   *workflow.UploadState   `json:"upload,omitempty"`
	Camera   *camera.State           `json:"camera,omitempty"`
	Database *workflow.ListingState  `json:"database,omitempty"`
	Match    *workflow.MatchState    `json:"face_match,omitempty"`
	Location *workflow.LocationState `json:"location,omitempty"`
}

// Shell holds the current path and the workflow mounted for it.
type Shell struct {
	mu        sync.Mutex
	client    Client
	newCamera CameraFactory
	logger    *zap.Logger

	path    string
	kind    Kind
	upload  *workflow.Upload
	camera  *camera.Camera
	listing *workflow.Listing
	match   *workflow.Match
}

// New creates a shell with nothing mounted. Call Navigate to show a screen.
func New(client Client, newCamera CameraFactory, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	if newCamera == nil {
		newCamera = func() *camera.Camera {
			return camera.New(camera.NoSource{}, camera.NewPNGCapture(0, 0), logger)
		}
	}
	return &Shell{
		client:    client,
		newCamera: newCamera,
		logger:    logger.With(zap.String("component", "shell")),
	}
}

// Screens returns the navigation links in header order.
func Screens() []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

// Navigate shows the screen for path. The previous workflow is disposed,
// except between the face match screen and its location edit which share
// one match workflow. Mounting the database screen loads the entries.
// Navigating to the current path does nothing.
func (s *Shell) Navigate(ctx context.Context, path string) error {
	kind, ok := routes[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	s.mu.Lock()
	if path == s.path {
		s.mu.Unlock()
		return nil
	}

	switch {
	case kind == KindLocation:
		if s.match == nil || s.match.LocationEdit() == nil {
			s.mu.Unlock()
			return ErrNoLocationEdit
		}
	case kind == KindMatch && s.kind == KindLocation:
		s.match.CloseLocationEdit()
	default:
		s.unmountLocked()
		s.mountLocked(kind)
	}

	s.logger.Debug("navigate", zap.String("from", s.path), zap.String("to", path))
	s.path = path
	s.kind = kind
	listing := s.listing
	s.mu.Unlock()

	if kind == KindDatabase && listing != nil {
		if err := listing.Load(ctx); err != nil && !errors.Is(err, workflow.ErrDisposed) && !errors.Is(err, workflow.ErrBusy) {
			s.logger.Info("initial load failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Shell) mountLocked(kind Kind) {
	switch kind {
	case KindUpload:
		s.upload = workflow.NewUpload(s.client, s.logger)
	case KindCamera:
		s.camera = s.newCamera()
	case KindDatabase:
		s.listing = workflow.NewListing(s.client, s.logger)
	case KindMatch:
		s.match = workflow.NewMatch(s.client, s.logger)
	}
}

func (s *Shell) unmountLocked() {
	if s.upload != nil {
		s.upload.Dispose()
		s.upload = nil
	}
	if s.camera != nil {
		if err := s.camera.Close(); err != nil {
			s.logger.Warn("closing camera", zap.Error(err))
		}
		s.camera = nil
	}
	if s.listing != nil {
		s.listing.Dispose()
		s.listing = nil
	}
	if s.match != nil {
		s.match.Dispose()
		s.match = nil
	}
}

// Current returns the current path, empty before the first Navigate.
func (s *Shell) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Close disposes the mounted workflow.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unmountLocked()
	s.path = ""
	s.kind = ""
}

// Upload returns the mounted upload workflow.
func (s *Shell) Upload() (*workflow.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind != KindUpload {
		return nil, notMounted(KindUpload)
	}
	return s.upload, nil
}

// Camera returns the mounted camera workflow.
func (s *Shell) Camera() (*camera.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind != KindCamera {
		return nil, notMounted(KindCamera)
	}
	return s.camera, nil
}

// Listing returns the mounted database workflow.
func (s *Shell) Listing() (*workflow.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind != KindDatabase {
		return nil, notMounted(KindDatabase)
	}
	return s.listing, nil
}

// Match returns the mounted face match workflow. It is also available
// while its location edit is shown.
func (s *Shell) Match() (*workflow.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind != KindMatch && s.kind != KindLocation {
		return nil, notMounted(KindMatch)
	}
	return s.match, nil
}

func notMounted(kind Kind) error {
	return fmt.Errorf("%w: %s", ErrNotMounted, kind)
}

// UseCapture hands the captured camera image to a fresh upload screen.
// The file is selected, not submitted.
func (s *Shell) UseCapture(ctx context.Context) (media.FileHandle, error) {
	cam, err := s.Camera()
	if err != nil {
		return media.FileHandle{}, err
	}
	file, err := cam.Use()
	if err != nil {
		return media.FileHandle{}, err
	}

	if err := s.Navigate(ctx, PathPhotoUpload); err != nil {
		return media.FileHandle{}, err
	}
	upload, err := s.Upload()
	if err != nil {
		return media.FileHandle{}, err
	}
	upload.Select(file)
	return file, nil
}

// Snapshot returns the state of the visible screen.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Path: s.path, Screen: s.kind}
	switch s.kind {
	case KindUpload:
		st := s.upload.State()
		snap.Upload = &st
	case KindCamera:
		st := s.camera.State()
		snap.Camera = &st
	case KindDatabase:
		st := s.listing.State()
		snap.Database = &st
	case KindMatch:
		st := s.match.State()
		snap.Match = &st
	case KindLocation:
		st := s.match.State()
		snap.Match = &st
		if edit := s.match.LocationEdit(); edit != nil {
			ls := edit.State()
			snap.Location = &ls
		}
	}
	return snap
}
