package workflow

import (
	"context"
	"testing"

	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []koya.MatchResult {
	return []koya.MatchResult{
		{ID: "17", PhotoURL: "http://localhost:5000/uploads/ada.jpg", Name: "Adaeze Okafor", Location: "Abuja"},
		{ID: "18", PhotoURL: "http://localhost:5000/uploads/adebayo.jpg", Name: "Adébáyọ̀ Ògúnlésì", Location: ""},
	}
}

func TestMatch_Ready(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches()}
	m := NewMatch(client, nil)
	defer m.Dispose()

	assert.Equal(t, MatchIdle, m.State().Phase)

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	state := m.State()
	assert.Equal(t, MatchReady, state.Phase)
	assert.Len(t, state.Results, 2)
	assert.False(t, state.NoMatches())
	assert.Empty(t, state.Error)
}

func TestMatch_Empty(t *testing.T) {
	client := &fakeMatcher{results: nil}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	state := m.State()
	assert.Equal(t, MatchReady, state.Phase)
	assert.NotNil(t, state.Results)
	assert.Empty(t, state.Results)
	assert.True(t, state.NoMatches())
	assert.Empty(t, state.Error)
}

func TestMatch_Failed(t *testing.T) {
	client := &fakeMatcher{matchErr: &koya.RequestError{Op: "match", StatusCode: 500, Message: "model not loaded"}}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.Error(t, m.Run(context.Background(), testFile(t, "face.png")))

	state := m.State()
	assert.Equal(t, MatchFailed, state.Phase)
	assert.Equal(t, "model not loaded", state.Error)
	assert.Empty(t, state.Results)
}

func TestMatch_NoPhoto(t *testing.T) {
	client := &fakeMatcher{}
	m := NewMatch(client, nil)
	defer m.Dispose()

	err := m.Run(context.Background(), media.FileHandle{})
	assert.True(t, IsValidationError(err))

	matches, _ := client.counts()
	assert.Equal(t, 0, matches)
	assert.Equal(t, MatchIdle, m.State().Phase)
}

func TestMatch_Retry(t *testing.T) {
	client := &fakeMatcher{matchErr: errTransport}
	m := NewMatch(client, nil)
	defer m.Dispose()

	assert.True(t, IsValidationError(m.Retry(context.Background())), "nothing to retry yet")

	require.Error(t, m.Run(context.Background(), testFile(t, "face.png")))
	assert.Equal(t, MatchFailed, m.State().Phase)

	client.mu.Lock()
	client.matchErr = nil
	client.results = sampleMatches()
	client.mu.Unlock()

	require.NoError(t, m.Retry(context.Background()))
	assert.Equal(t, MatchReady, m.State().Phase)

	matches, _ := client.counts()
	assert.Equal(t, 2, matches)
}

func TestMatch_RunWhileLoading(t *testing.T) {
	g := newGate()
	client := &fakeMatcher{results: sampleMatches(), matchGate: g}
	m := NewMatch(client, nil)
	defer m.Dispose()

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background(), testFile(t, "face.png")) }()
	<-g.entered

	assert.Equal(t, MatchLoading, m.State().Phase)
	assert.ErrorIs(t, m.Run(context.Background(), testFile(t, "face.png")), ErrBusy)

	close(g.release)
	require.NoError(t, <-done)

	matches, _ := client.counts()
	assert.Equal(t, 1, matches)
}

func TestMatch_DisposeDiscardsResults(t *testing.T) {
	g := newGate()
	client := &fakeMatcher{results: sampleMatches(), matchGate: g}
	m := NewMatch(client, nil)

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background(), testFile(t, "face.png")) }()
	<-g.entered

	m.Dispose()

	assert.ErrorIs(t, <-done, ErrDisposed)
	assert.Equal(t, MatchLoading, m.State().Phase)
	assert.Empty(t, m.State().Results)
}

func TestMatch_LocationUpdatePatchesRow(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches()}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))
	before := m.State()

	edit, err := m.OpenLocationEdit("17")
	require.NoError(t, err)
	assert.Same(t, edit, m.LocationEdit())

	edit.SetDraft("Lagos")
	require.NoError(t, edit.Submit(context.Background()))

	state := m.State()
	assert.Equal(t, "Lagos", state.Results[0].Location)
	assert.Equal(t, "", state.Results[1].Location, "other rows untouched")
	assert.Equal(t, "Abuja", before.Results[0].Location, "earlier snapshots untouched")

	_, updates := client.counts()
	assert.Equal(t, 1, updates)
	assert.Equal(t, "Lagos", client.updated["17"])
}

func TestMatch_LocationUpdateFailureKeepsRow(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches(), updateErr: &koya.RequestError{Op: "update_location", StatusCode: 404, Message: "Face not found"}}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	edit, err := m.OpenLocationEdit("17")
	require.NoError(t, err)

	edit.SetDraft("Lagos")
	require.Error(t, edit.Submit(context.Background()))

	assert.Equal(t, "Abuja", m.State().Results[0].Location)

	es := edit.State()
	assert.Equal(t, LocationEditing, es.Phase)
	assert.Equal(t, "error updating location: Face not found", es.Error)
	assert.False(t, es.Invalid)
	assert.Equal(t, "Lagos", es.Draft)
}

func TestMatch_OpenLocationEditErrors(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches()}
	m := NewMatch(client, nil)
	defer m.Dispose()

	_, err := m.OpenLocationEdit("17")
	assert.ErrorIs(t, err, ErrNoResults, "no results yet")

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	_, err = m.OpenLocationEdit("99")
	assert.ErrorIs(t, err, ErrUnknownMatch, "unknown id")
}

func TestMatch_OpenLocationEditReplacesPrevious(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches()}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	first, err := m.OpenLocationEdit("17")
	require.NoError(t, err)
	second, err := m.OpenLocationEdit("18")
	require.NoError(t, err)

	first.SetDraft("Lagos")
	assert.ErrorIs(t, first.Submit(context.Background()), ErrDisposed)
	assert.Equal(t, koya.MatchID("18"), m.LocationEdit().TargetID())
	assert.Same(t, second, m.LocationEdit())

	m.CloseLocationEdit()
	assert.Nil(t, m.LocationEdit())
}

func TestMatch_Filter(t *testing.T) {
	client := &fakeMatcher{results: sampleMatches()}
	m := NewMatch(client, nil)
	defer m.Dispose()

	require.NoError(t, m.Run(context.Background(), testFile(t, "face.png")))

	got := m.Filter("ogun")
	require.Len(t, got, 1)
	assert.Equal(t, koya.MatchID("18"), got[0].ID)

	assert.Len(t, m.Filter(""), 2)
	assert.Empty(t, m.Filter("tunde"))
}
