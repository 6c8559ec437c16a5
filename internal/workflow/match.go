package workflow

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kozaktomas/koya-pay/internal/facematch"
	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/media"
	"go.uber.org/zap"
)

// MatchPhase is the phase of a face-match query.
type MatchPhase int

const (
	// MatchIdle means no photo has been submitted yet.
	MatchIdle MatchPhase = iota
	MatchLoading
	MatchReady
	MatchFailed
)

func (p MatchPhase) String() string {
	switch p {
	case MatchIdle:
		return "idle"
	case MatchLoading:
		return "loading"
	case MatchReady:
		return "ready"
	case MatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (p MatchPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Display texts of the match screen.
const (
	MsgNoMatches   = "no matches found"
	MsgSelectPhoto = "select a photo to match"
)

// MatchState is a snapshot of the match workflow.
type MatchState struct {
	Phase   MatchPhase         `json:"phase"`
	Results []koya.MatchResult `json:"results"`
	Error   string             `json:"error,omitempty"`
}

// NoMatches reports whether the query finished with an empty result set.
func (s MatchState) NoMatches() bool {
	return s.Phase == MatchReady && len(s.Results) == 0
}

// Match is the face-match workflow: Loading -> Ready(results) | Failed(message).
// Each result row can open a LocationEdit; a successful edit patches the
// row's location in place rather than refetching the matches.
type Match struct {
	mu     sync.Mutex
	client Matcher
	logger *zap.Logger
	life   lifetime

	phase    MatchPhase
	results  []koya.MatchResult
	errText  string
	lastFile *media.FileHandle
	edit     *LocationEdit
}

// NewMatch creates a match workflow with no query run.
func NewMatch(client Matcher, logger *zap.Logger) *Match {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Match{
		client: client,
		logger: logger.With(zap.String("workflow", "match")),
		life:   newLifetime(),
	}
}

// Run matches the face in file. While a query is loading, Run returns ErrBusy.
func (m *Match) Run(ctx context.Context, file media.FileHandle) error {
	m.mu.Lock()
	if m.life.done() {
		m.mu.Unlock()
		return ErrDisposed
	}
	if m.phase == MatchLoading {
		m.mu.Unlock()
		return ErrBusy
	}
	if file.IsZero() {
		m.mu.Unlock()
		return &ValidationError{Field: "photo", Message: MsgSelectPhoto}
	}
	m.phase = MatchLoading
	m.errText = ""
	m.lastFile = &file
	m.closeEditLocked()
	m.mu.Unlock()

	reqCtx, cancel := m.life.bind(ctx)
	defer cancel()
	results, err := m.client.MatchFace(reqCtx, file)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.life.done() {
		m.logger.Debug("discarding matches after dispose")
		return ErrDisposed
	}
	if err != nil {
		m.phase = MatchFailed
		m.results = nil
		m.errText = errorText("", err)
		m.logger.Info("match failed", zap.Error(err))
		return err
	}

	m.phase = MatchReady
	m.results = slices.Clone(results)
	if m.results == nil {
		m.results = []koya.MatchResult{}
	}
	m.logger.Debug("matches loaded", zap.Int("count", len(m.results)))
	return nil
}

// Retry runs the last query again.
func (m *Match) Retry(ctx context.Context) error {
	m.mu.Lock()
	file := m.lastFile
	m.mu.Unlock()

	if file == nil {
		return &ValidationError{Field: "photo", Message: MsgSelectPhoto}
	}
	return m.Run(ctx, *file)
}

// OpenLocationEdit opens a location edit for the result with the given id.
// An edit already open for another row is cancelled.
func (m *Match) OpenLocationEdit(id koya.MatchID) (*LocationEdit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.life.done() {
		return nil, ErrDisposed
	}
	if m.phase != MatchReady {
		return nil, fmt.Errorf("%w (phase %s)", ErrNoResults, m.phase)
	}
	if !slices.ContainsFunc(m.results, func(r koya.MatchResult) bool { return r.ID == id }) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMatch, id)
	}

	m.closeEditLocked()
	m.edit = NewLocationEdit(id, m.updateLocation, m.logger)
	return m.edit, nil
}

// LocationEdit returns the open location edit, or nil.
func (m *Match) LocationEdit() *LocationEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edit
}

// CloseLocationEdit cancels the open location edit, if any.
func (m *Match) CloseLocationEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeEditLocked()
}

func (m *Match) closeEditLocked() {
	if m.edit != nil {
		m.edit.Cancel()
		m.edit = nil
	}
}

// updateLocation is the UpdateFunc handed to location edits.
func (m *Match) updateLocation(ctx context.Context, id koya.MatchID, location string) error {
	if _, err := m.client.UpdateLocation(ctx, id, location); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.life.done() {
		return nil
	}
	// Copy on write so earlier snapshots keep their values.
	patched := slices.Clone(m.results)
	for i := range patched {
		if patched[i].ID == id {
			patched[i].Location = location
		}
	}
	m.results = patched
	return nil
}

// Filter returns the results whose name contains query, ignoring case and diacritics.
func (m *Match) Filter(query string) []koya.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []koya.MatchResult{}
	for _, r := range m.results {
		if facematch.NameMatches(r.Name, query) {
			out = append(out, r)
		}
	}
	return out
}

// State returns a snapshot of the workflow.
func (m *Match) State() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MatchState{
		Phase:   m.phase,
		Results: slices.Clone(m.results),
		Error:   m.errText,
	}
}

// Dispose tears the workflow down, cancelling the query and any open edit.
func (m *Match) Dispose() {
	m.mu.Lock()
	m.closeEditLocked()
	m.mu.Unlock()
	m.life.end()
}
