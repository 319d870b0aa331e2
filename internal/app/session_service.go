package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-session-service/internal/domain"
)

// DefaultQuestionCount matches the original product's fixed quiz length.
const DefaultQuestionCount = 15

// SessionRepository abstracts how sessions are registered (in-memory, Redis-aware, etc).
type SessionRepository interface {
	GetOrCreate(email string) *Session
	Get(email string) (*Session, bool)
	Delete(email string)
	Sweep(maxAge time.Duration) int
}

// QuestionSource supplies raw question records on demand.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, amount int) ([]domain.RawQuestion, error)
}

// SessionService contains the session use cases: starting a quiz for an
// email, proxying mutations to the owning session, and finalization.
type SessionService struct {
	sessions SessionRepository
	source   QuestionSource
	fallback []domain.RawQuestion
	amount   int
	sf       singleflight.Group
}

func NewSessionService(store SessionRepository, source QuestionSource, fallback []domain.RawQuestion, amount int) *SessionService {
	if amount <= 0 {
		amount = DefaultQuestionCount
	}
	return &SessionService{
		sessions: store,
		source:   source,
		fallback: fallback,
		amount:   amount,
	}
}

// Start creates (or revisits) the session for email and loads its question
// set. Loads are deduplicated per email: concurrent starts share one
// provider fetch, and a session that is already loaded is returned as-is
// rather than re-fetched or reshuffled. Rate limiting from the provider is
// recovered locally by substituting the built-in sample set; the countdown
// starts only after a successful load.
func (s *SessionService) Start(ctx context.Context, email string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(email)

	_, err, _ := s.sf.Do(email, func() (interface{}, error) {
		if !session.BeginLoad() {
			return nil, nil
		}

		raw, err := s.source.FetchQuestions(ctx, s.amount)
		if errors.Is(err, domain.ErrRateLimited) {
			raw, err = s.fallback, nil
		}
		if err != nil {
			session.FailLoad()
			return nil, err
		}
		if len(raw) == 0 {
			session.FailLoad()
			return nil, domain.ErrNoQuestions
		}

		session.LoadQuestions(raw)
		session.StartTimer()
		return nil, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Snapshot returns the current read-only view of a session.
func (s *SessionService) Snapshot(email string) (Snapshot, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Answer records an answer on the session's question.
func (s *SessionService) Answer(email, questionID, answer string) (Snapshot, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.SetAnswer(questionID, answer)
	return session.Snapshot(), nil
}

// ClearAnswer marks the question as unanswered.
func (s *SessionService) ClearAnswer(email, questionID string) (Snapshot, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.ClearAnswer(questionID)
	return session.Snapshot(), nil
}

// GoTo moves the session cursor; out-of-range indexes are ignored.
func (s *SessionService) GoTo(email string, index int) (Snapshot, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.GoToIndex(index)
	return session.Snapshot(), nil
}

// Submit finalizes the session and returns its result.
func (s *SessionService) Submit(email string) (domain.Result, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}
	return session.Submit()
}

// Reset tears the session back to empty so the user can run a fresh quiz.
func (s *SessionService) Reset(email string) (Snapshot, error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.Reset()
	return session.Snapshot(), nil
}

// Subscribe returns a channel of snapshot updates for a session. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *SessionService) Subscribe(email string) (<-chan Snapshot, func(), error) {
	session, ok := s.sessions.Get(email)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// SweepIdle drops sessions with no activity for maxAge and reports how
// many were removed.
func (s *SessionService) SweepIdle(maxAge time.Duration) int {
	return s.sessions.Sweep(maxAge)
}
