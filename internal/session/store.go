// Package session owns the operator's credential and the lifecycle of the
// snapshot poller that depends on it.
package session

import "sync"

// Credential is the opaque bearer token issued by the coordinator at login.
type Credential string

// CredentialStore holds at most one credential. It starts empty and is safe
// for concurrent use; the poller reads it on every tick.
type CredentialStore struct {
	mu    sync.RWMutex
	cred  Credential
	valid bool
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Set replaces the stored credential.
func (s *CredentialStore) Set(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = c
	s.valid = true
}

// Get returns the stored credential and whether one is present.
func (s *CredentialStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.valid
}

// Token implements engine.TokenSource.
func (s *CredentialStore) Token() (string, bool) {
	c, ok := s.Get()
	return string(c), ok
}

// Clear empties the store.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = ""
	s.valid = false
}
