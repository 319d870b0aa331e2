package memory

import (
	"sync"
	"time"

	"quiz-session-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository,
// keyed by the session owner's email.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
	budget   time.Duration
	now      func() time.Time
}

func NewSessionStore(budget time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
		budget:   budget,
		now:      time.Now,
	}
}

func (s *SessionStore) GetOrCreate(email string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[email]; ok {
		return session
	}
	session := app.NewSessionWithBudget(email, s.budget)
	s.sessions[email] = session
	return session
}

func (s *SessionStore) Get(email string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[email]
	return session, ok
}

func (s *SessionStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, email)
}

// Sweep removes sessions idle for longer than maxAge and reports how many
// were dropped.
func (s *SessionStore) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for email, session := range s.sessions {
		if session.Idle(maxAge, now) {
			delete(s.sessions, email)
			removed++
		}
	}
	return removed
}
