package workflow

import (
	"context"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/facematch"
	"github.com/kozaktomas/koya-pay/internal/koya"
	"go.uber.org/zap"
)

// LocationPhase is the phase of a location edit.
type LocationPhase int

const (
	LocationEditing LocationPhase = iota
	LocationSubmitting
	LocationDone
)

func (p LocationPhase) String() string {
	switch p {
	case LocationEditing:
		return "editing"
	case LocationSubmitting:
		return "submitting"
	case LocationDone:
		return "done"
	default:
		return "unknown"
	}
}

func (p LocationPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MsgEnterLocation is shown when a blank location is submitted.
const MsgEnterLocation = "please enter a location"

// UpdateFunc writes a location for a match result.
type UpdateFunc func(ctx context.Context, id koya.MatchID, location string) error

// LocationState is a snapshot of a location edit.
type LocationState struct {
	TargetID koya.MatchID  `json:"target_id"`
	Draft    string        `json:"draft"`
	Phase    LocationPhase `json:"phase"`
	Error    string        `json:"error,omitempty"`
	// Invalid is set when Error comes from local validation rather than the service.
	Invalid bool `json:"invalid,omitempty"`
}

// LocationEdit edits the location of one match result:
// Editing -> Submitting -> Done, or back to Editing on failure.
type LocationEdit struct {
	mu     sync.Mutex
	update UpdateFunc
	logger *zap.Logger
	life   lifetime

	targetID koya.MatchID
	draft    string
	phase    LocationPhase
	errText  string
	invalid  bool
}

// NewLocationEdit opens an edit for targetID that reports through update.
func NewLocationEdit(targetID koya.MatchID, update UpdateFunc, logger *zap.Logger) *LocationEdit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationEdit{
		update:   update,
		logger:   logger.With(zap.String("workflow", "location"), zap.String("target_id", string(targetID))),
		life:     newLifetime(),
		targetID: targetID,
	}
}

// TargetID returns the id of the match result being edited.
func (e *LocationEdit) TargetID() koya.MatchID {
	return e.targetID
}

// SetDraft replaces the pending location. Editing a finished edit reopens it.
func (e *LocationEdit) SetDraft(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == LocationSubmitting {
		return
	}
	e.draft = text
	e.phase = LocationEditing
}

// Submit validates the draft and hands it to the owner's update function.
// A blank draft is rejected with a ValidationError without calling update.
func (e *LocationEdit) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.life.done() {
		e.mu.Unlock()
		return ErrDisposed
	}
	if e.phase == LocationSubmitting {
		e.mu.Unlock()
		return ErrBusy
	}
	location := facematch.NormalizeLocation(e.draft)
	if location == "" {
		e.phase = LocationEditing
		e.errText = MsgEnterLocation
		e.invalid = true
		e.mu.Unlock()
		return &ValidationError{Field: "location", Message: MsgEnterLocation}
	}
	e.phase = LocationSubmitting
	e.errText = ""
	e.invalid = false
	e.mu.Unlock()

	reqCtx, cancel := e.life.bind(ctx)
	defer cancel()
	err := e.update(reqCtx, e.targetID, location)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.life.done() {
		e.logger.Debug("discarding location result after dispose")
		return ErrDisposed
	}
	if err != nil {
		e.phase = LocationEditing
		e.errText = errorText("error updating location", err)
		e.logger.Info("location update failed", zap.Error(err))
		return err
	}

	e.phase = LocationDone
	e.draft = ""
	e.logger.Info("location updated", zap.String("location", location))
	return nil
}

// State returns a snapshot of the edit.
func (e *LocationEdit) State() LocationState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return LocationState{
		TargetID: e.targetID,
		Draft:    e.draft,
		Phase:    e.phase,
		Error:    e.errText,
		Invalid:  e.invalid,
	}
}

// Cancel destroys the edit.
func (e *LocationEdit) Cancel() {
	e.life.end()
}
