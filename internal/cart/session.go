package cart

import (
	"errors"
	"sync"
)

// ErrSubmissionInFlight is returned when a second order submission starts on
// a session before the first one has resolved.
var ErrSubmissionInFlight = errors.New("an order submission is already in flight for this session")

// Session owns one cart store and the at-most-one-in-flight submission guard.
// The checkout workflow holds the guard for the whole write sequence, so a
// double tap on the submit action cannot create two orders from one cart.
type Session struct {
	ID   string
	Cart *Store

	mu         sync.Mutex
	submitting bool
}

// NewSession creates a session with an empty cart.
func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Cart: NewStore(),
	}
}

// BeginSubmit acquires the submission guard. The loser of a concurrent
// double submit gets ErrSubmissionInFlight.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInFlight
	}
	s.submitting = true
	return nil
}

// EndSubmit releases the submission guard.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Sessions is a registry of active user sessions keyed by session id.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		session = NewSession(id)
		r.sessions[id] = session
	}
	return session
}

// Drop removes a session from the registry.
func (r *Sessions) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
