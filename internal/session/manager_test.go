package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/dfsmon/internal/client"
	"github.com/dm/dfsmon/internal/logging"
	"github.com/dm/dfsmon/internal/model"
)

// fakeCoordinator is a scripted client.Coordinator.
type fakeCoordinator struct {
	loginFn func(username, password string) (string, error)

	mu     sync.Mutex
	tokens []string
}

func (f *fakeCoordinator) Login(_ context.Context, username, password string) (string, error) {
	return f.loginFn(username, password)
}

func (f *fakeCoordinator) GetSnapshot(_ context.Context, token string) (*model.Snapshot, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	return &model.Snapshot{
		Nodes:  map[string]model.NodeDetail{},
		Files:  map[string][]string{},
		Chunks: map[string]model.ChunkDetail{},
	}, nil
}

func (f *fakeCoordinator) BaseURL() string { return "http://fake" }

func (f *fakeCoordinator) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

type countingSink struct {
	mu        sync.Mutex
	published int
	last      *model.Summary
}

func (s *countingSink) Publish(summary *model.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published++
	s.last = summary
}

func (s *countingSink) Failed(error) {}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

func newTestManager(t *testing.T, c client.Coordinator, sink *countingSink, interval time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		Client:   c,
		Sink:     sink,
		Logger:   logging.Discard(),
		Interval: interval,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestNewManager_RequiresClientAndSink(t *testing.T) {
	_, err := NewManager(Config{Sink: &countingSink{}})
	assert.Error(t, err)
	_, err = NewManager(Config{Client: &fakeCoordinator{}})
	assert.Error(t, err)
}

func TestManager_StartsIdle(t *testing.T) {
	m := newTestManager(t, &fakeCoordinator{}, &countingSink{}, time.Hour)
	assert.Equal(t, StateIdle, m.State())
	_, ok := m.Credential()
	assert.False(t, ok)
}

func TestManager_LoginStartsPollingImmediately(t *testing.T) {
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) { return "T1", nil }}
	sink := &countingSink{}
	m := newTestManager(t, fc, sink, time.Hour)

	cred, err := m.Login(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, Credential("T1"), cred)
	assert.Equal(t, StatePolling, m.State())

	// Interval is an hour, so this is the immediate poll.
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"T1"}, fc.seen())
}

func TestManager_FailedLoginLeavesIdle(t *testing.T) {
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) {
		return "", &client.AuthError{Message: "bad credentials"}
	}}
	sink := &countingSink{}
	m := newTestManager(t, fc, sink, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		_, err := m.Login(context.Background(), "a", "wrong")
		var authErr *client.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "bad credentials", authErr.Message)
	}

	assert.Equal(t, StateIdle, m.State())
	_, ok := m.Credential()
	assert.False(t, ok)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, fc.seen())
	assert.Equal(t, 0, sink.count())
}

func TestManager_ReloginKeepsSingleTimer(t *testing.T) {
	next := "T1"
	var mu sync.Mutex
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return next, nil
	}}
	sink := &countingSink{}
	m := newTestManager(t, fc, sink, time.Hour)

	_, err := m.Login(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(fc.seen()) == 1 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	next = "T2"
	mu.Unlock()
	_, err = m.Login(context.Background(), "a", "b")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(fc.seen()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"T1", "T2"}, fc.seen())

	m.mu.Lock()
	arms := m.arms
	m.mu.Unlock()
	assert.Equal(t, 1, arms)
	assert.Equal(t, StatePolling, m.State())
}

func TestManager_FailedReloginKeepsCredential(t *testing.T) {
	fail := false
	var mu sync.Mutex
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return "", &client.AuthError{Message: "bad credentials"}
		}
		return "T1", nil
	}}
	m := newTestManager(t, fc, &countingSink{}, time.Hour)

	_, err := m.Login(context.Background(), "a", "b")
	require.NoError(t, err)

	mu.Lock()
	fail = true
	mu.Unlock()
	_, err = m.Login(context.Background(), "a", "wrong")
	require.Error(t, err)

	cred, ok := m.Credential()
	assert.True(t, ok)
	assert.Equal(t, Credential("T1"), cred)
	assert.Equal(t, StatePolling, m.State())
}

func TestManager_RefreshTriggersPoll(t *testing.T) {
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) { return "T1", nil }}
	sink := &countingSink{}
	m := newTestManager(t, fc, sink, time.Hour)

	m.Refresh() // idle: ignored
	_, err := m.Login(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)

	m.Refresh()
	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestManager_CloseStopsPolling(t *testing.T) {
	fc := &fakeCoordinator{loginFn: func(u, p string) (string, error) { return "T1", nil }}
	sink := &countingSink{}
	m := newTestManager(t, fc, sink, 5*time.Millisecond)

	_, err := m.Login(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sink.count() >= 2 }, time.Second, 5*time.Millisecond)

	m.Close()
	assert.Equal(t, StateIdle, m.State())
	_, ok := m.Credential()
	assert.False(t, ok)

	after := len(fc.seen())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, len(fc.seen()))

	m.Close() // idempotent
}

// TestManager_EndToEnd drives the real HTTP client against a coordinator
// stub: login with {a,b} yields T1 and the first snapshot request carries
// the raw token.
func TestManager_EndToEnd(t *testing.T) {
	authHeaders := make(chan string, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var req client.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Username == "a" && req.Password == "b" {
				_, _ = w.Write([]byte(`{"Token":"T1"}`))
				return
			}
			_, _ = w.Write([]byte(`{"Error":"bad credentials"}`))
		case "/monitoring/snapshot":
			authHeaders <- r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{
				"datanode_to_detail_map": {"n1": {"is_active": true, "storage_remaining": 2097152}},
				"file_to_chunk_map": {"f1": ["c1"]},
				"chunk_id_to_detail_map": {"c1": {"start_offset": 0, "end_offset": 100, "state": "COMMITTED", "locations": ["n1"]}}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := client.NewDefaultClient(client.ClientConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second})
	require.NoError(t, err)
	sink := &countingSink{}
	m := newTestManager(t, c, sink, time.Hour)

	_, err = m.Login(context.Background(), "a", "wrong")
	var authErr *client.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "bad credentials", authErr.Message)
	assert.Equal(t, StateIdle, m.State())

	_, err = m.Login(context.Background(), "a", "b")
	require.NoError(t, err)

	select {
	case got := <-authHeaders:
		assert.Equal(t, "T1", got)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot request after login")
	}

	require.Eventually(t, func() bool { return sink.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	sink.mu.Lock()
	s := sink.last
	sink.mu.Unlock()
	assert.Equal(t, 1, s.Nodes.Total)
	assert.Equal(t, 1, s.Nodes.Active)
	assert.Equal(t, 0, s.Nodes.Inactive)
	require.Len(t, s.Files, 1)
	assert.Equal(t, int64(100), s.Files[0].Size)
}
