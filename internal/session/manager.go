package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dm/dfsmon/internal/client"
	"github.com/dm/dfsmon/internal/engine"
)

// State is the polling state of a Manager.
type State int

const (
	// StateIdle: no credential, no timer.
	StateIdle State = iota
	// StatePolling: credential stored, poller running.
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	default:
		return "unknown"
	}
}

// Config wires a Manager to its collaborators. The poller settings are
// passed through to engine.PollerConfig.
type Config struct {
	Client client.Coordinator
	Sink   engine.Sink
	Logger *log.Logger

	Interval       time.Duration
	RequestTimeout time.Duration
	MaxInFlight    int
	Aggregate      engine.Options
}

// Manager performs login and starts polling on the first success. It owns
// the credential store and the poller's run loop.
type Manager struct {
	client client.Coordinator
	logger *log.Logger
	store  *CredentialStore
	poller *engine.Poller

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	arms   int // Idle → Polling transitions, one timer each
}

// NewManager returns an idle Manager with an empty credential store.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Client == nil {
		return nil, errors.New("session: coordinator client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	store := NewCredentialStore()
	poller, err := engine.NewPoller(engine.PollerConfig{
		Client:         cfg.Client,
		Tokens:         store,
		Sink:           cfg.Sink,
		Logger:         logger,
		Interval:       cfg.Interval,
		RequestTimeout: cfg.RequestTimeout,
		MaxInFlight:    cfg.MaxInFlight,
		Aggregate:      cfg.Aggregate,
	})
	if err != nil {
		return nil, err
	}
	return &Manager{
		client: cfg.Client,
		logger: logger.WithPrefix("session"),
		store:  store,
		poller: poller,
	}, nil
}

// Login exchanges username and password for a credential. Empty values are
// sent as-is. On success the credential is stored and, if the manager was
// idle, polling starts with an immediate fetch. A login while already
// polling swaps the credential and requests one immediate poll; the running
// timer is kept. On failure nothing changes and the *client.AuthError is
// returned.
func (m *Manager) Login(ctx context.Context, username, password string) (Credential, error) {
	token, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", "user", username, "err", err)
		return "", err
	}
	cred := Credential(token)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Set(cred)
	if m.state == StatePolling {
		m.logger.Info("credential replaced", "user", username)
		m.poller.Trigger()
		return cred, nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.poller.Run(runCtx)
	}()
	m.cancel = cancel
	m.done = done
	m.state = StatePolling
	m.arms++
	m.logger.Info("logged in; polling", "user", username, "interval", m.poller.Interval())
	return cred, nil
}

// State reports whether the manager is polling.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Credential returns the stored credential, if any.
func (m *Manager) Credential() (Credential, bool) {
	return m.store.Get()
}

// Refresh requests an immediate poll. It is a no-op while idle.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePolling {
		m.poller.Trigger()
	}
}

// Interval is the poll interval in effect.
func (m *Manager) Interval() time.Duration {
	return m.poller.Interval()
}

// Close stops the poller, waits for its run loop and in-flight fetches to
// return, and forgets the credential. The manager is idle afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.state = StateIdle
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	m.store.Clear()
}
