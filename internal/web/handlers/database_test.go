package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// mockEntries serves GET and POST /database over an in-memory list
type mockEntries struct {
	mu        sync.Mutex
	entries   []string
	appendErr bool
	appends   int
}

func (m *mockEntries) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, m.entries)
	case "POST":
		m.appends++
		if m.appendErr {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database locked"})
			return
		}
		var req struct {
			Entry string `json:"entry"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		m.entries = append(m.entries, req.Entry)
		w.WriteHeader(http.StatusCreated)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func TestDatabaseHandler_Append_RoundTrip(t *testing.T) {
	mock := &mockEntries{entries: []string{"a", "b"}}
	server := setupMockKoyaServer(t, map[string]http.HandlerFunc{"/database": mock.handler})
	sh := newTestShell(t, server)
	handler := NewDatabaseHandler(sh, nil)

	recorder := httptest.NewRecorder()
	handler.Append(recorder, jsonRequest(t, "POST", "/api/v1/database", map[string]string{"entry": "X"}))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp screenResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Database == nil {
		t.Fatal("expected database screen in response")
	}
	want := []string{"a", "b", "X"}
	if len(resp.Database.Entries) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, resp.Database.Entries)
	}
	for i := range want {
		if resp.Database.Entries[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], resp.Database.Entries[i])
		}
	}
	if resp.Database.Pending != "" {
		t.Errorf("expected pending cleared, got %q", resp.Database.Pending)
	}
}

func TestDatabaseHandler_Append_Empty(t *testing.T) {
	mock := &mockEntries{entries: []string{"a"}}
	server := setupMockKoyaServer(t, map[string]http.HandlerFunc{"/database": mock.handler})
	handler := NewDatabaseHandler(newTestShell(t, server), nil)

	recorder := httptest.NewRecorder()
	handler.Append(recorder, jsonRequest(t, "POST", "/api/v1/database", map[string]string{"entry": "  "}))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	if mock.appends != 0 {
		t.Errorf("expected no append request, got %d", mock.appends)
	}
}

func TestDatabaseHandler_Append_ServerErrorKeepsPending(t *testing.T) {
	mock := &mockEntries{entries: []string{"a"}, appendErr: true}
	server := setupMockKoyaServer(t, map[string]http.HandlerFunc{"/database": mock.handler})
	sh := newTestShell(t, server)
	handler := NewDatabaseHandler(sh, nil)

	recorder := httptest.NewRecorder()
	handler.Append(recorder, jsonRequest(t, "POST", "/api/v1/database", map[string]string{"entry": "X"}))

	assertStatusCode(t, recorder, http.StatusBadGateway)

	st := sh.Snapshot()
	if st.Database == nil {
		t.Fatal("expected database screen mounted")
	}
	if st.Database.Pending != "X" {
		t.Errorf("expected pending kept, got %q", st.Database.Pending)
	}
	if len(st.Database.Entries) != 1 {
		t.Errorf("expected entries reloaded unchanged, got %v", st.Database.Entries)
	}
}

func TestDatabaseHandler_Reload(t *testing.T) {
	mock := &mockEntries{entries: []string{"a"}}
	server := setupMockKoyaServer(t, map[string]http.HandlerFunc{"/database": mock.handler})
	handler := NewDatabaseHandler(newTestShell(t, server), nil)

	recorder := httptest.NewRecorder()
	handler.Reload(recorder, httptest.NewRequest("POST", "/api/v1/database/reload", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	mock.mu.Lock()
	mock.entries = append(mock.entries, "b")
	mock.mu.Unlock()

	recorder = httptest.NewRecorder()
	handler.Reload(recorder, httptest.NewRequest("POST", "/api/v1/database/reload", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp screenResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Database == nil || len(resp.Database.Entries) != 2 {
		t.Errorf("expected 2 entries after reload, got %+v", resp.Database)
	}
}
