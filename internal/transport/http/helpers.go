package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"quiz-session-service/internal/domain"
)

// emailPattern mirrors the sign-in form's check: something@something.tld,
// no whitespace. The core treats the email as opaque; only the transport
// boundary validates it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email passes the sign-in validation.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrQuestionsNotLoaded):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoQuestions):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
