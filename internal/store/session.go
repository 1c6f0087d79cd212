package store

import (
	"sync"

	"productkart/internal/models"
	"productkart/pkg/localstore"
)

// sessionKey is the single durable key holding the serialized session.
const sessionKey = "userInfo"

// Session is the one authoritative owner of the authenticated session.
// It hydrates from durable storage at construction and is mutated only
// through Set (login/register/profile refresh) and Clear (logout), each
// of which also writes through to storage. Everything else reads copies.
type Session struct {
	mu      sync.RWMutex
	storage *localstore.Store
	current *models.Session
}

// NewSession creates the session owner, hydrating from storage. An
// absent or corrupt stored session yields a logged-out state, never an
// error.
func NewSession(storage *localstore.Store) *Session {
	s := &Session{storage: storage}
	var stored models.Session
	if err := storage.Load(sessionKey, &stored); err == nil && stored.Token != "" {
		// All-or-nothing: a stored session without a token is garbage.
		s.current = &stored
	}
	return s
}

// Current returns a copy of the session, or nil when logged out.
func (s *Session) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Token returns the current bearer token, "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Set installs a new session and persists it.
func (s *Session) Set(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.current = &copied
	return s.storage.Save(sessionKey, &copied)
}

// Clear drops the session from memory and storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return s.storage.Delete(sessionKey)
}
