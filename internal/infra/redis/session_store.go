package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Session state stays in process memory (the quiz state machine is
// single-writer and never persisted); Redis carries a liveness marker per
// active email with a TTL, so an operator can see which sessions exist
// across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	budget   time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
	now      func() time.Time
}

func NewSessionStore(client *redis.Client, ttl, budget time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		budget:   budget,
		sessions: make(map[string]*app.Session),
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(email), "1", s.ttl).Err()
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
	s.deleteLocked(email)
}

func (s *SessionStore) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for email, session := range s.sessions {
		if session.Idle(maxAge, now) {
			s.deleteLocked(email)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) deleteLocked(email string) {
	if _, ok := s.sessions[email]; !ok {
		return
	}
	delete(s.sessions, email)
	_ = s.client.Del(context.Background(), s.key(email)).Err()
}

func (s *SessionStore) key(email string) string {
	return "quiz:session:" + email
}
