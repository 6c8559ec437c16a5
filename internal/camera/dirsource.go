package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kozaktomas/koya-pay/internal/constants"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DirSource is a VideoSource backed by a directory that a webcam tool
// (fswebcam, motion, ffmpeg -update) keeps writing snapshots into.
// The newest image in the directory is the live frame.
type DirSource struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	latest   string
	latestAt time.Time
	previous string
	first    chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewDirSource creates a source watching dir.
func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSource{
		dir:      dir,
		debounce: constants.FrameDebounce,
		logger:   logger.With(zap.String("camera_dir", dir)),
	}
}

// isFrameFile checks if a file has an extension DirSource can decode
func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".webp":
		return !strings.HasPrefix(filepath.Base(name), ".")
	default:
		return false
	}
}

// newestFrame returns the most recently modified frame file in dir.
func newestFrame(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read folder %s: %w", dir, err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !isFrameFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entry.Name())
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}

// Start begins watching the directory and waits for the first frame.
func (s *DirSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		s.mu.Unlock()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	newest, err := newestFrame(s.dir)
	if err != nil {
		watcher.Close()
		s.mu.Unlock()
		return err
	}

	s.watcher = watcher
	s.latest = newest
	s.previous = ""
	s.latestAt = time.Time{}
	s.first = make(chan struct{})
	if newest != "" {
		close(s.first)
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	first := s.first
	s.mu.Unlock()

	go s.run(watcher, s.stopCh, s.doneCh)

	select {
	case <-first:
		return nil
	case <-ctx.Done():
		s.Stop()
		return fmt.Errorf("waiting for first frame: %w", ctx.Err())
	}
}

func (s *DirSource) run(watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("camera watcher error", zap.Error(err))
		}
	}
}

func (s *DirSource) handleEvent(event fsnotify.Event) {
	if !isFrameFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Name != s.latest {
		s.previous = s.latest
		s.latest = event.Name
	}
	s.latestAt = time.Now()

	select {
	case <-s.first:
	default:
		close(s.first)
	}
}

// Frame decodes the newest snapshot. A snapshot written less than the
// debounce interval ago may still be half-written, so the previous one is
// preferred while it settles.
func (s *DirSource) Frame() (image.Image, error) {
	s.mu.RLock()
	running := s.running
	latest, previous, latestAt := s.latest, s.previous, s.latestAt
	s.mu.RUnlock()

	if !running {
		return nil, ErrNotStreaming
	}
	if latest == "" {
		return nil, errors.New("no frame available")
	}

	candidates := []string{latest, previous}
	if previous != "" && time.Since(latestAt) < s.debounce {
		candidates = []string{previous, latest}
	}

	var lastErr error
	for _, path := range candidates {
		if path == "" {
			continue
		}
		img, err := decodeFile(path)
		if err == nil {
			return img, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the watched camera directory
	if err != nil {
		return nil, fmt.Errorf("could not open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Stop stops watching and waits for the watcher goroutine to exit.
func (s *DirSource) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	watcher, stopCh, doneCh := s.watcher, s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	if err := watcher.Close(); err != nil {
		return fmt.Errorf("closing watcher: %w", err)
	}
	return nil
}
