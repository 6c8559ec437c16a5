package workflow

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// MsgEmptyEntry is shown when an append is triggered with nothing staged.
const MsgEmptyEntry = "enter an entry to add"

// ListingState is a snapshot of the listing workflow.
type ListingState struct {
	Entries   []string `json:"entries"`
	Pending   string   `json:"pending"`
	Loaded    bool     `json:"loaded"`
	Loading   bool     `json:"loading"`
	Appending bool     `json:"appending"`
	Error     string   `json:"error,omitempty"`
}

// Listing is the database listing workflow. The entry list only ever comes
// from the latest successful fetch; an append is followed by a full reload
// instead of a local insert.
type Listing struct {
	mu     sync.Mutex
	client EntryStore
	logger *zap.Logger
	life   lifetime

	entries   []string
	pending   string
	loaded    bool
	loading   bool
	loadDone  chan struct{} // closed when the latest load finishes
	appending bool
	errText   string
}

// NewListing creates a listing workflow with no entries loaded.
func NewListing(client EntryStore, logger *zap.Logger) *Listing {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listing{
		client:  client,
		logger:  logger.With(zap.String("workflow", "listing")),
		life:    newLifetime(),
		entries: []string{},
	}
}

// Load fetches the entries. On failure the previous entries are kept and the
// error is exposed in the state.
func (l *Listing) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.life.done() {
		l.mu.Unlock()
		return ErrDisposed
	}
	if l.loading {
		l.mu.Unlock()
		return ErrBusy
	}
	l.loading = true
	done := make(chan struct{})
	l.loadDone = done
	l.mu.Unlock()

	reqCtx, cancel := l.life.bind(ctx)
	defer cancel()
	entries, err := l.client.ListEntries(reqCtx)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer close(done)

	if l.life.done() {
		l.logger.Debug("discarding entries after dispose")
		return ErrDisposed
	}
	l.loading = false
	if err != nil {
		l.errText = errorText("error fetching entries", err)
		l.logger.Info("list entries failed", zap.Error(err))
		return err
	}

	l.entries = slices.Clone(entries)
	if l.entries == nil {
		l.entries = []string{}
	}
	l.loaded = true
	l.errText = ""
	l.logger.Debug("entries loaded", zap.Int("count", len(l.entries)))
	return nil
}

// SetPending stages text for the next append.
func (l *Listing) SetPending(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = text
}

// Append sends the staged entry and then reloads the list. Nothing is sent
// when the staged text is blank. The staged text is cleared once the server
// confirms the append; the reload runs whatever the append's outcome.
func (l *Listing) Append(ctx context.Context) error {
	l.mu.Lock()
	if l.life.done() {
		l.mu.Unlock()
		return ErrDisposed
	}
	if l.appending {
		l.mu.Unlock()
		return ErrBusy
	}
	if isBlank(l.pending) {
		l.mu.Unlock()
		return &ValidationError{Field: "entry", Message: MsgEmptyEntry}
	}
	text := l.pending
	l.appending = true
	l.mu.Unlock()

	reqCtx, cancel := l.life.bind(ctx)
	appendErr := l.client.AppendEntry(reqCtx, text)
	cancel()

	l.mu.Lock()
	if l.life.done() {
		l.mu.Unlock()
		return ErrDisposed
	}
	l.appending = false
	if appendErr != nil {
		l.errText = errorText("error adding entry", appendErr)
		l.logger.Info("append entry failed", zap.Error(appendErr))
	} else if l.pending == text {
		// Keep anything typed while the append was in flight.
		l.pending = ""
	}
	l.mu.Unlock()

	loadErr := l.reload(ctx)
	if appendErr != nil {
		if loadErr == nil {
			// Load cleared the error text; the append failure is what the user needs to see.
			l.mu.Lock()
			l.errText = errorText("error adding entry", appendErr)
			l.mu.Unlock()
		}
		return appendErr
	}
	return loadErr
}

// reload fetches the entries after an append. A load already in flight was
// issued before the append landed, so it is waited out and a fresh fetch is
// issued after it.
func (l *Listing) reload(ctx context.Context) error {
	for {
		err := l.Load(ctx)
		if !errors.Is(err, ErrBusy) {
			return err
		}

		l.mu.Lock()
		done := l.loadDone
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// State returns a snapshot of the workflow.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ListingState{
		Entries:   slices.Clone(l.entries),
		Pending:   l.pending,
		Loaded:    l.loaded,
		Loading:   l.loading,
		Appending: l.appending,
		Error:     l.errText,
	}
}

// Dispose tears the workflow down and cancels requests in flight.
func (l *Listing) Dispose() {
	l.life.end()
}
