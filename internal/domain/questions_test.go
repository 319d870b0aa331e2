package domain

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"
)

func rawFixture(n int) []RawQuestion {
	raw := make([]RawQuestion, 0, n)
	for i := 0; i < n; i++ {
		suffix := strconv.Itoa(i)
		raw = append(raw, RawQuestion{
			Question:         "prompt " + suffix,
			CorrectAnswer:    "right " + suffix,
			IncorrectAnswers: []string{"wrong-a " + suffix, "wrong-b " + suffix, "wrong-c " + suffix},
		})
	}
	return raw
}

func sorted(options []string) []string {
	out := make([]string, len(options))
	copy(out, options)
	sort.Strings(out)
	return out
}

func TestBuildQuestionsAssignsSequentialIDs(t *testing.T) {
	raw := rawFixture(15)
	questions := BuildQuestions(raw, rand.New(rand.NewSource(42)))

	if len(questions) != 15 {
		t.Fatalf("expected 15 questions, got %d", len(questions))
	}
	for idx, q := range questions {
		want := strconv.Itoa(idx + 1)
		if q.ID != want {
			t.Fatalf("question %d has id %q, want %q", idx, q.ID, want)
		}
		if q.Prompt != raw[idx].Question {
			t.Fatalf("question %d prompt %q, want %q", idx, q.Prompt, raw[idx].Question)
		}
		if q.CorrectAnswer != raw[idx].CorrectAnswer {
			t.Fatalf("question %d correct answer %q, want %q", idx, q.CorrectAnswer, raw[idx].CorrectAnswer)
		}
		if q.UserAnswer != "" {
			t.Fatalf("question %d starts answered: %q", idx, q.UserAnswer)
		}
	}
}

func TestBuildQuestionsOptionsArePermutationOfAnswers(t *testing.T) {
	raw := rawFixture(5)
	questions := BuildQuestions(raw, rand.New(rand.NewSource(7)))

	for idx, q := range questions {
		want := append([]string{raw[idx].CorrectAnswer}, raw[idx].IncorrectAnswers...)
		if len(q.Options) != len(want) {
			t.Fatalf("question %d has %d options, want %d", idx, len(q.Options), len(want))
		}
		got := sorted(q.Options)
		expected := sorted(want)
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("question %d options %v are not a permutation of %v", idx, q.Options, want)
			}
		}
	}
}

func TestBuildQuestionsSameSeedIsSetEqual(t *testing.T) {
	raw := rawFixture(3)
	first := BuildQuestions(raw, rand.New(rand.NewSource(99)))
	second := BuildQuestions(raw, rand.New(rand.NewSource(99)))

	for idx := range first {
		a := sorted(first[idx].Options)
		b := sorted(second[idx].Options)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("question %d option sets differ: %v vs %v", idx, first[idx].Options, second[idx].Options)
			}
		}
	}
}

func TestCopyQuestionsDoesNotAlias(t *testing.T) {
	questions := BuildQuestions(rawFixture(2), rand.New(rand.NewSource(1)))
	copied := CopyQuestions(questions)

	copied[0].UserAnswer = copied[0].Options[0]
	copied[1].Options[0] = "mutated"

	if questions[0].UserAnswer != "" {
		t.Fatalf("copy aliased UserAnswer: %q", questions[0].UserAnswer)
	}
	if questions[1].Options[0] == "mutated" {
		t.Fatalf("copy aliased options slice")
	}

	if CopyQuestions(nil) != nil {
		t.Fatalf("copy of nil should stay nil to preserve the not-loaded state")
	}
}
