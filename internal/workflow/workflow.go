// Package workflow implements the screen workflows of the Koya Pay client:
// photo upload, database listing, face match and location update.
//
// Each workflow owns its state for the lifetime of a screen. Operations block
// until the remote call finishes and may be called from any goroutine; a
// workflow refuses a second operation of the same kind while one is in flight
// (ErrBusy). Dispose cancels in-flight requests and makes the workflow drop
// any response that still arrives.
package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/media"
)

var (
	// ErrBusy is returned when an operation of the same kind is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrDisposed is returned by operations on a workflow whose screen was torn down.
	ErrDisposed = errors.New("workflow disposed")

	// ErrNoResults is returned by OpenLocationEdit before a match has loaded.
	ErrNoResults = errors.New("no match results to edit")

	// ErrUnknownMatch is returned by OpenLocationEdit for an id not in the results.
	ErrUnknownMatch = errors.New("match not found")
)

// ValidationError is raised for empty input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Uploader uploads a photo for recognition.
type Uploader interface {
	Upload(ctx context.Context, file media.FileHandle) (*koya.MessageResponse, error)
}

// EntryStore lists and appends database entries.
type EntryStore interface {
	ListEntries(ctx context.Context) ([]string, error)
	AppendEntry(ctx context.Context, text string) error
}

// Matcher runs face matches and writes locations back.
type Matcher interface {
	MatchFace(ctx context.Context, file media.FileHandle) ([]koya.MatchResult, error)
	UpdateLocation(ctx context.Context, id koya.MatchID, location string) (*koya.MessageResponse, error)
}

// lifetime ties the requests of a workflow to its mount.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// bind derives a request context that ends with either the caller's context or the lifetime.
func (l lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) done() bool {
	return l.ctx.Err() != nil
}

func (l lifetime) end() {
	l.cancel()
}

// errorText renders err for display, preferring the server's message.
func errorText(prefix string, err error) string {
	msg := koya.Message(err)
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

// isBlank reports whether s has no visible characters.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
