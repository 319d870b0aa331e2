package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for an email.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrRateLimited indicates the question provider refused the request;
	// callers substitute the built-in sample set instead of failing.
	ErrRateLimited = errors.New("question provider rate limited")
	// ErrQuestionsNotLoaded is returned when an operation needs a loaded
	// question set and none is present.
	ErrQuestionsNotLoaded = errors.New("questions not loaded")
	// ErrNoQuestions indicates a provider returned an empty question list.
	ErrNoQuestions = errors.New("provider returned no questions")
	// ErrInvalidEmail is returned by transport-level email validation.
	ErrInvalidEmail = errors.New("invalid email address")
)
