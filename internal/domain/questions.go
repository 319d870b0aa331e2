package domain

import (
	"math/rand"
	"strconv"
)

// BuildQuestions normalizes provider records into session questions.
// IDs are assigned sequentially starting at "1" in provider order, and
// each question's options are a uniform shuffle of the correct answer
// unioned with the incorrect ones. Texts are carried through verbatim;
// decoding HTML entities is the presentation layer's concern.
func BuildQuestions(raw []RawQuestion, rng *rand.Rand) []Question {
	questions := make([]Question, 0, len(raw))
	for idx, item := range raw {
		options := make([]string, 0, len(item.IncorrectAnswers)+1)
		options = append(options, item.IncorrectAnswers...)
		options = append(options, item.CorrectAnswer)
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, Question{
			ID:            strconv.Itoa(idx + 1),
			Prompt:        item.Question,
			Options:       options,
			CorrectAnswer: item.CorrectAnswer,
		})
	}
	return questions
}

// CopyQuestions returns a deep copy so snapshots cannot alias session state.
func CopyQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	copy(out, questions)
	for i := range out {
		options := make([]string, len(out[i].Options))
		copy(options, out[i].Options)
		out[i].Options = options
	}
	return out
}
