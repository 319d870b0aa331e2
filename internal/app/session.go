package app

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"quiz-session-service/internal/domain"
)

// DefaultTimeBudget is how long a session may run before it finalizes itself.
const DefaultTimeBudget = 30 * time.Minute

// LoadState guards the provider fetch so a re-entrant load attempt can
// never duplicate or reshuffle an already-loaded question set.
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadInFlight
	LoadLoaded
	LoadFailed
)

// Snapshot is the read-only view handed to consumers. Questions and Result
// are deep copies; mutating a snapshot never touches session state.
type Snapshot struct {
	UserEmail            string            `json:"userEmail"`
	Questions            []domain.Question `json:"questions,omitempty"`
	CurrentIndex         int               `json:"currentIndex"`
	TimeRemainingSeconds int               `json:"timeRemainingSeconds"`
	TimerActive          bool              `json:"timerActive"`
	AnsweredCount        int               `json:"answeredCount"`
	TotalQuestions       int               `json:"totalQuestions"`
	Result               *domain.Result    `json:"result,omitempty"`
}

// Session is the authoritative owner of one user's quiz state: the question
// set, the current position, per-question answers, the countdown, and the
// finalized result. All mutations go through its methods; the mutex makes
// the decrement-to-zero-and-finalize step indivisible so a last-instant
// answer change and the expiring tick can never race into an inconsistent
// result.
type Session struct {
	email string
	now   func() time.Time
	rng   *rand.Rand

	mu          sync.Mutex
	questions   []domain.Question
	current     int
	remaining   int
	budget      int
	timerActive bool
	startedAt   time.Time
	result      *domain.Result
	loadState   LoadState
	lastTouched time.Time
	stopTick    chan struct{}
	subscribers map[chan Snapshot]struct{}
}

// NewSession creates an empty session for the given email with the default
// 30-minute budget.
func NewSession(email string) *Session {
	return NewSessionWithBudget(email, DefaultTimeBudget)
}

// NewSessionWithBudget creates an empty session with a custom time budget.
func NewSessionWithBudget(email string, budget time.Duration) *Session {
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	return newSession(email, budget, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithClock is for deterministic timestamps in tests.
func NewSessionWithClock(email string, now func() time.Time) *Session {
	return newSession(email, DefaultTimeBudget, now, rand.New(rand.NewSource(1)))
}

func newSession(email string, budget time.Duration, now func() time.Time, rng *rand.Rand) *Session {
	seconds := int(budget.Seconds())
	return &Session{
		email:       email,
		now:         now,
		rng:         rng,
		current:     0,
		remaining:   seconds,
		budget:      seconds,
		lastTouched: now(),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// BeginLoad transitions the load guard to in-flight. It reports false when
// a fetch is already running or questions are already loaded, so callers
// suppress the duplicate attempt instead of interleaving it.
func (s *Session) BeginLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.loadState {
	case LoadNotStarted, LoadFailed:
		s.loadState = LoadInFlight
		return true
	default:
		return false
	}
}

// FailLoad records a provider failure so a later attempt may retry.
func (s *Session) FailLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadState == LoadInFlight {
		s.loadState = LoadFailed
	}
}

// LoadQuestions normalizes the provider records into the session's question
// set. It does not start the countdown; callers invoke StartTimer once the
// load succeeds.
func (s *Session) LoadQuestions(raw []domain.RawQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = domain.BuildQuestions(raw, s.rng)
	s.loadState = LoadLoaded
	s.touchLocked()
	s.broadcastLocked()
}

// SetAnswer records the user's answer for a question. Unknown IDs and an
// absent question set are no-ops; membership of answer in the question's
// options is the caller's contract.
func (s *Session) SetAnswer(questionID, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			s.questions[i].UserAnswer = answer
			s.touchLocked()
			s.broadcastLocked()
			return
		}
	}
}

// ClearAnswer marks the question as unanswered. Unknown IDs are no-ops.
func (s *Session) ClearAnswer(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			s.questions[i].UserAnswer = ""
			s.touchLocked()
			s.broadcastLocked()
			return
		}
	}
}

// GoToIndex moves the cursor. Indexes outside [0, len(questions)) are
// silently ignored.
func (s *Session) GoToIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questions == nil || index < 0 || index >= len(s.questions) {
		return
	}
	s.current = index
	s.touchLocked()
	s.broadcastLocked()
}

// StartTimer activates the countdown and captures the start reference.
// Calling it again resets the reference but never spawns a second ticker.
func (s *Session) StartTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return
	}
	s.startedAt = s.now()
	s.timerActive = true
	s.touchLocked()
	if s.stopTick == nil {
		stop := make(chan struct{})
		s.stopTick = stop
		go s.runTimer(stop)
	}
	s.broadcastLocked()
}

// StopTimer halts the countdown without finalizing. The start reference is
// kept so a later Submit still reports elapsed time.
func (s *Session) StopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltTimerLocked()
	s.broadcastLocked()
}

// Submit finalizes the session from the current answer snapshot. Once a
// result exists further submissions return it unchanged, which closes the
// manual-submit-versus-final-tick race.
func (s *Session) Submit() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return *s.result, nil
	}
	if len(s.questions) == 0 {
		return domain.Result{}, domain.ErrQuestionsNotLoaded
	}
	s.finalizeLocked()
	s.broadcastLocked()
	return *s.result, nil
}

// Reset tears the session back to its empty starting state, ready to be
// reused for a fresh run.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltTimerLocked()
	s.questions = nil
	s.result = nil
	s.current = 0
	s.remaining = s.budget
	s.startedAt = time.Time{}
	s.loadState = LoadNotStarted
	s.touchLocked()
	s.broadcastLocked()
}

// Snapshot returns the current read-only view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every mutation and
// every countdown tick. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Idle reports whether the session has seen no activity for maxAge. A
// session with a running countdown is never idle; its ticker would outlive
// a registry sweep. Used by the periodic cleanup job.
func (s *Session) Idle(maxAge time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timerActive {
		return false
	}
	return now.Sub(s.lastTouched) > maxAge
}

func (s *Session) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !s.tick() {
				return
			}
		case <-stop:
			return
		}
	}
}

// tick applies one second of countdown. Reaching zero finalizes inside the
// same critical section, so no user mutation can interleave between the
// zero crossing and the result being recorded. It reports whether the
// ticker loop should keep running.
func (s *Session) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timerActive {
		return false
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.finalizeLocked()
	}
	s.broadcastLocked()
	return s.timerActive
}

func (s *Session) finalizeLocked() {
	correct := 0
	for _, q := range s.questions {
		if q.Correct() {
			correct++
		}
	}
	total := len(s.questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	now := s.now()
	timeSpent := s.budget
	if !s.startedAt.IsZero() {
		timeSpent = int(now.Sub(s.startedAt).Seconds())
	}

	s.result = &domain.Result{
		UserEmail:        s.email,
		Questions:        domain.CopyQuestions(s.questions),
		Score:            score,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		TimeSpentSeconds: timeSpent,
		CompletedAt:      now,
	}
	s.haltTimerLocked()
	s.touchLocked()
}

func (s *Session) haltTimerLocked() {
	s.timerActive = false
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Session) touchLocked() {
	s.lastTouched = s.now()
}

func (s *Session) snapshotLocked() Snapshot {
	answered := 0
	for _, q := range s.questions {
		if q.Answered() {
			answered++
		}
	}

	var result *domain.Result
	if s.result != nil {
		copied := *s.result
		copied.Questions = domain.CopyQuestions(s.result.Questions)
		result = &copied
	}

	return Snapshot{
		UserEmail:            s.email,
		Questions:            domain.CopyQuestions(s.questions),
		CurrentIndex:         s.current,
		TimeRemainingSeconds: s.remaining,
		TimerActive:          s.timerActive,
		AnsweredCount:        answered,
		TotalQuestions:       len(s.questions),
		Result:               result,
	}
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow consumer cannot
			// block the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
