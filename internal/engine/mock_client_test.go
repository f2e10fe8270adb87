package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/dm/dfsmon/internal/model"
)

// MockCoordinator implements client.Coordinator for testing.
type MockCoordinator struct {
	LoginFn    func(ctx context.Context, username, password string) (string, error)
	SnapshotFn func(ctx context.Context, token string) (*model.Snapshot, error)

	mu     sync.Mutex
	tokens []string // token passed to every GetSnapshot call, in call order
}

func (m *MockCoordinator) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return "token", nil
}

func (m *MockCoordinator) GetSnapshot(ctx context.Context, token string) (*model.Snapshot, error) {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx, token)
	}
	return sampleSnapshot(), nil
}

func (m *MockCoordinator) BaseURL() string {
	return "http://mock:8080"
}

// Calls returns the number of GetSnapshot calls so far.
func (m *MockCoordinator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// Tokens returns a copy of the tokens seen by GetSnapshot.
func (m *MockCoordinator) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

// staticTokens is a TokenSource with a fixed answer.
type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Token() (string, bool) { return s.token, s.ok }

// recordingSink collects everything published to it.
type recordingSink struct {
	mu        sync.Mutex
	summaries []*model.Summary
	failures  []error
}

func (s *recordingSink) Publish(summary *model.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
}

func (s *recordingSink) Failed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

func (s *recordingSink) counts() (published, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.summaries), len(s.failures)
}

func (s *recordingSink) last() *model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.summaries) == 0 {
		return nil
	}
	return s.summaries[len(s.summaries)-1]
}

// sampleSnapshot is the single-node, single-file, single-chunk cluster.
func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Nodes: map[string]model.NodeDetail{
			"n1": {Active: true, StorageRemaining: 2097152},
		},
		Files: map[string][]string{
			"f1": {"c1"},
		},
		Chunks: map[string]model.ChunkDetail{
			"c1": {StartOffset: 0, EndOffset: 100, State: "COMMITTED", Locations: []string{"n1"}},
		},
	}
}

var errMockFailure = errors.New("mock failure")
