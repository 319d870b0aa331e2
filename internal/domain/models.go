package domain

import "time"

// RawQuestion mirrors the Open Trivia DB payload shape. Every question
// source (remote API, static sample set, Postgres bank) produces this
// shape; prompt and answer texts may carry HTML entities that consumers
// decode for display.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Question is the normalized in-session form of a RawQuestion. IDs are
// sequential ("1".."N") and stable only within one load; Options hold the
// correct and incorrect answers in an order fixed at normalization time.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	// UserAnswer is empty while the question is unanswered. When set it is
	// always one of Options; option texts are never empty strings.
	UserAnswer string `json:"userAnswer,omitempty"`
}

// Answered reports whether the user has selected an option.
func (q Question) Answered() bool {
	return q.UserAnswer != ""
}

// Correct reports whether the selected option is the correct one.
func (q Question) Correct() bool {
	return q.Answered() && q.UserAnswer == q.CorrectAnswer
}

// Result is the immutable outcome of a finalized session.
type Result struct {
	UserEmail        string     `json:"userEmail"`
	Questions        []Question `json:"questions"`
	Score            int        `json:"score"`
	TotalQuestions   int        `json:"totalQuestions"`
	CorrectAnswers   int        `json:"correctAnswers"`
	TimeSpentSeconds int        `json:"timeSpentSeconds"`
	CompletedAt      time.Time  `json:"completedAt"`
}
