package app

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(budget time.Duration) (*Session, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 8, 11, 10, 0, 0, 0, time.UTC)}
	return newSession("alice@example.com", budget, clock.Now, rand.New(rand.NewSource(1))), clock
}

func rawQuestions(n int) []domain.RawQuestion {
	raw := make([]domain.RawQuestion, 0, n)
	for i := 0; i < n; i++ {
		suffix := strconv.Itoa(i)
		raw = append(raw, domain.RawQuestion{
			Question:         "prompt " + suffix,
			CorrectAnswer:    "right " + suffix,
			IncorrectAnswers: []string{"wrong-a " + suffix, "wrong-b " + suffix, "wrong-c " + suffix},
		})
	}
	return raw
}

// answerSome marks exactly correct questions right and the remainder wrong.
func answerSome(s *Session, correct int) {
	snap := s.Snapshot()
	for idx, q := range snap.Questions {
		if idx < correct {
			s.SetAnswer(q.ID, q.CorrectAnswer)
			continue
		}
		for _, opt := range q.Options {
			if opt != q.CorrectAnswer {
				s.SetAnswer(q.ID, opt)
				break
			}
		}
	}
}

func TestSetAnswerAndClearAnswer(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(3))

	snap := s.Snapshot()
	q := snap.Questions[1]
	s.SetAnswer(q.ID, q.Options[2])

	if got := s.Snapshot().Questions[1].UserAnswer; got != q.Options[2] {
		t.Fatalf("expected answer %q, got %q", q.Options[2], got)
	}
	if s.Snapshot().AnsweredCount != 1 {
		t.Fatalf("expected 1 answered, got %d", s.Snapshot().AnsweredCount)
	}

	s.ClearAnswer(q.ID)
	if got := s.Snapshot().Questions[1]; got.Answered() {
		t.Fatalf("expected cleared answer, got %q", got.UserAnswer)
	}

	// clearing an already-cleared question leaves state unchanged
	s.ClearAnswer(q.ID)
	if s.Snapshot().AnsweredCount != 0 {
		t.Fatalf("expected 0 answered after double clear")
	}
}

func TestSetAnswerUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)
	s.SetAnswer("1", "anything") // questions not loaded
	s.LoadQuestions(rawQuestions(2))
	s.SetAnswer("99", "anything")
	s.ClearAnswer("99")

	if s.Snapshot().AnsweredCount != 0 {
		t.Fatalf("no-op mutations changed state")
	}
}

func TestGoToIndexClampsToRange(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)

	s.GoToIndex(1) // no questions yet
	if s.Snapshot().CurrentIndex != 0 {
		t.Fatalf("index moved before load")
	}

	s.LoadQuestions(rawQuestions(5))
	for _, invalid := range []int{-1, 5, 100} {
		s.GoToIndex(invalid)
		if got := s.Snapshot().CurrentIndex; got != 0 {
			t.Fatalf("GoToIndex(%d) moved cursor to %d", invalid, got)
		}
	}

	s.GoToIndex(4)
	if got := s.Snapshot().CurrentIndex; got != 4 {
		t.Fatalf("expected index 4, got %d", got)
	}
	s.GoToIndex(2)
	if got := s.Snapshot().CurrentIndex; got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
}

func TestSubmitScoring(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		correct   int
		wantScore int
	}{
		{name: "15 questions 9 correct", total: 15, correct: 9, wantScore: 60},
		{name: "4 questions 3 correct", total: 4, correct: 3, wantScore: 75},
		{name: "3 questions 1 correct", total: 3, correct: 1, wantScore: 33},
		{name: "all correct", total: 5, correct: 5, wantScore: 100},
		{name: "none correct", total: 5, correct: 0, wantScore: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(DefaultTimeBudget)
			s.LoadQuestions(rawQuestions(tc.total))
			answerSome(s, tc.correct)

			result, err := s.Submit()
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if result.Score != tc.wantScore {
				t.Fatalf("score = %d, want %d", result.Score, tc.wantScore)
			}
			if result.CorrectAnswers != tc.correct {
				t.Fatalf("correctAnswers = %d, want %d", result.CorrectAnswers, tc.correct)
			}
			if result.TotalQuestions != tc.total {
				t.Fatalf("totalQuestions = %d, want %d", result.TotalQuestions, tc.total)
			}
		})
	}
}

func TestSubmitWithoutQuestionsFails(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)
	if _, err := s.Submit(); err != domain.ErrQuestionsNotLoaded {
		t.Fatalf("expected ErrQuestionsNotLoaded, got %v", err)
	}
}

func TestSubmitIsIdempotentOnceFinalized(t *testing.T) {
	s, clock := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(4))
	answerSome(s, 2)

	first, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// a racing late mutation and re-submission must not produce a new result
	clock.Advance(time.Minute)
	answerSome(s, 4)
	second, err := s.Submit()
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.CorrectAnswers != first.CorrectAnswers || !second.CompletedAt.Equal(first.CompletedAt) {
		t.Fatalf("second submit changed the result: %+v vs %+v", second, first)
	}
	if s.Snapshot().TimerActive {
		t.Fatalf("timer still active after finalization")
	}
}

func TestSubmitReportsElapsedTime(t *testing.T) {
	s, clock := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(2))

	s.mu.Lock()
	s.timerActive = true
	s.startedAt = clock.Now()
	s.mu.Unlock()

	clock.Advance(95 * time.Second)
	result, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.TimeSpentSeconds != 95 {
		t.Fatalf("timeSpent = %d, want 95", result.TimeSpentSeconds)
	}
}

func TestExpiryFallsBackToFullBudget(t *testing.T) {
	// finalization without a captured start reports the whole budget
	s, _ := newTestSession(5 * time.Second)
	s.LoadQuestions(rawQuestions(1))

	s.mu.Lock()
	s.timerActive = true
	s.remaining = 1
	s.mu.Unlock()

	s.tick()
	result := s.Snapshot().Result
	if result == nil {
		t.Fatalf("expected result after expiry")
	}
	if result.TimeSpentSeconds != 5 {
		t.Fatalf("timeSpent = %d, want full 5s budget", result.TimeSpentSeconds)
	}
}

func TestCountdownExpiryFinalizesExactlyOnce(t *testing.T) {
	s, clock := newTestSession(5 * time.Second)
	s.LoadQuestions(rawQuestions(3))

	s.mu.Lock()
	s.timerActive = true
	s.startedAt = clock.Now()
	s.mu.Unlock()

	snap := s.Snapshot()
	s.SetAnswer(snap.Questions[0].ID, snap.Questions[0].CorrectAnswer)

	for i := 0; i < 4; i++ {
		if !s.tick() {
			t.Fatalf("timer stopped early at tick %d", i+1)
		}
		if s.Snapshot().Result != nil {
			t.Fatalf("finalized early at tick %d", i+1)
		}
	}

	// last-instant answer change lands before the expiring tick
	s.SetAnswer(snap.Questions[1].ID, snap.Questions[1].CorrectAnswer)

	if s.tick() {
		t.Fatalf("timer still running after expiry")
	}

	after := s.Snapshot()
	if after.Result == nil {
		t.Fatalf("expected result after expiry")
	}
	if after.TimerActive {
		t.Fatalf("timer active after expiry")
	}
	if after.TimeRemainingSeconds != 0 {
		t.Fatalf("remaining = %d, want 0", after.TimeRemainingSeconds)
	}
	if after.Result.CorrectAnswers != 2 {
		t.Fatalf("expiry result missed the last answer: %+v", after.Result)
	}

	// further ticks must not refinalize
	completedAt := after.Result.CompletedAt
	if s.tick() {
		t.Fatalf("tick reactivated expired timer")
	}
	if got := s.Snapshot().Result.CompletedAt; !got.Equal(completedAt) {
		t.Fatalf("expiry finalized twice")
	}
}

func TestResetRestoresEmptyState(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(3))
	answerSome(s, 2)
	s.GoToIndex(2)
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	s.Reset()

	snap := s.Snapshot()
	if snap.Questions != nil {
		t.Fatalf("questions present after reset")
	}
	if snap.Result != nil {
		t.Fatalf("result present after reset")
	}
	if snap.CurrentIndex != 0 {
		t.Fatalf("index = %d after reset", snap.CurrentIndex)
	}
	if snap.TimeRemainingSeconds != 1800 {
		t.Fatalf("remaining = %d after reset, want 1800", snap.TimeRemainingSeconds)
	}
	if snap.TimerActive {
		t.Fatalf("timer active after reset")
	}

	// the load guard reopens so a fresh run can fetch again
	if !s.BeginLoad() {
		t.Fatalf("load guard still closed after reset")
	}
}

func TestBeginLoadGuardsDuplicateFetches(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)

	if !s.BeginLoad() {
		t.Fatalf("first BeginLoad refused")
	}
	if s.BeginLoad() {
		t.Fatalf("BeginLoad allowed while in flight")
	}

	s.LoadQuestions(rawQuestions(2))
	if s.BeginLoad() {
		t.Fatalf("BeginLoad allowed after load completed")
	}

	s2, _ := newTestSession(DefaultTimeBudget)
	if !s2.BeginLoad() {
		t.Fatalf("BeginLoad refused on fresh session")
	}
	s2.FailLoad()
	if !s2.BeginLoad() {
		t.Fatalf("BeginLoad refused retry after failure")
	}
}

func TestSubscribeReceivesMutationUpdates(t *testing.T) {
	s, _ := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(2))

	updates, cancel := s.Subscribe()
	defer cancel()

	<-updates // initial snapshot

	snap := s.Snapshot()
	s.SetAnswer(snap.Questions[0].ID, snap.Questions[0].CorrectAnswer)

	update := <-updates
	if update.AnsweredCount != 1 {
		t.Fatalf("expected answered count 1 in update, got %d", update.AnsweredCount)
	}
}

func TestStartTimerResetsReference(t *testing.T) {
	s, clock := newTestSession(DefaultTimeBudget)
	s.LoadQuestions(rawQuestions(1))

	s.StartTimer()
	clock.Advance(10 * time.Second)
	s.StartTimer() // idempotent, re-captures the start reference
	clock.Advance(5 * time.Second)

	result, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.TimeSpentSeconds != 5 {
		t.Fatalf("timeSpent = %d, want 5 (measured from second start)", result.TimeSpentSeconds)
	}
}
