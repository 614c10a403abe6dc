package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore keeps auth sessions (token -> username) in memory with TTL.
// It backs /check-auth when no Redis is configured.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

type sessionEntry struct {
	username  string
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

// NewSessionStoreWithClock is test-only for deterministic expiry.
func NewSessionStoreWithClock(ttl time.Duration, clock func() time.Time) *SessionStore {
	store := NewSessionStore(ttl)
	store.clock = clock
	return store
}

// Put registers or refreshes a session token.
func (s *SessionStore) Put(_ context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sessionEntry{
		username:  username,
		expiresAt: s.clock().Add(s.ttl),
	}
	return nil
}

// Lookup resolves a token to a username; expired tokens are dropped lazily.
func (s *SessionStore) Lookup(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.After(s.clock()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.username, true, nil
}

// Delete removes a session (logout).
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
