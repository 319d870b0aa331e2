package memory

import (
	"context"

	"quiz-session-service/internal/domain"
)

// QuestionSource serves a fixed raw question list. It backs tests and the
// rate-limit fallback path, where the session proceeds on the built-in
// sample set instead of surfacing a provider error.
type QuestionSource struct {
	questions []domain.RawQuestion
}

func NewQuestionSource(questions []domain.RawQuestion) *QuestionSource {
	return &QuestionSource{questions: questions}
}

// FetchQuestions returns up to amount records from the fixed list.
func (s *QuestionSource) FetchQuestions(_ context.Context, amount int) ([]domain.RawQuestion, error) {
	if len(s.questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if amount <= 0 || amount > len(s.questions) {
		amount = len(s.questions)
	}
	out := make([]domain.RawQuestion, amount)
	copy(out, s.questions[:amount])
	return out, nil
}

// SampleQuestions is the bundled 15-question trivia set used when the
// remote provider rate-limits. Texts keep their HTML entities; consumers
// decode them for display.
func SampleQuestions() []domain.RawQuestion {
	return []domain.RawQuestion{
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Comics",
			Question:         "What&#039;s the name of Batman&#039;s parents?",
			CorrectAnswer:    "Thomas &amp; Martha",
			IncorrectAnswers: []string{"Joey &amp; Jackie", "Jason &amp; Sarah", "Todd &amp; Mira"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Television",
			Question:         "Who was Firestorm&#039;s rival during the original run of UK Robot Wars?",
			CorrectAnswer:    "Panic Attack",
			IncorrectAnswers: []string{"Razer", "Chaos 2", "Hypno Disc"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Music",
			Question:         "The Who&#039;s eponymous line, &quot;Teenage Wasteland&quot;, appears in which of their songs?",
			CorrectAnswer:    "Baba O&#039; Riley",
			IncorrectAnswers: []string{"The Seeker", "Won&#039;t Get Fooled Again", "Pinball Wizard"},
		},
		{
			Type:             "multiple",
			Difficulty:       "easy",
			Category:         "General Knowledge",
			Question:         "Which American president appears on a one dollar bill?",
			CorrectAnswer:    "George Washington",
			IncorrectAnswers: []string{"Thomas Jefferson", "Abraham Lincoln", "Benjamin Franklin"},
		},
		{
			Type:             "multiple",
			Difficulty:       "hard",
			Category:         "Entertainment: Video Games",
			Question:         "What is the name of the alligator in Where&#039;s My Water?",
			CorrectAnswer:    "Swampy",
			IncorrectAnswers: []string{"Cranky", "Crocky", "Justice"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Video Games",
			Question:         "What was the code name for the &quot;Nintendo Gamecube&quot;?",
			CorrectAnswer:    "Dolphin",
			IncorrectAnswers: []string{"Nitro", "Revolution", "Atlantis"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Sports",
			Question:         "Which NBA player has the most games played over the course of their career?",
			CorrectAnswer:    "Robert Parish",
			IncorrectAnswers: []string{"Kareem Abdul-Jabbar", "Kevin Garnett", "Kobe Bryant"},
		},
		{
			Type:             "multiple",
			Difficulty:       "easy",
			Category:         "Entertainment: Television",
			Question:         "In the TV show &#039;M*A*S*H&#039;, what was the nickname of Corporal Walter O&#039;Reilly?",
			CorrectAnswer:    "Radar",
			IncorrectAnswers: []string{"Hawkeye", "Hot Lips", "Trapper"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Video Games",
			Question:         "What is the name the location-based augmented reality game developed by Niantic before Pok&eacute;mon GO?",
			CorrectAnswer:    "Ingress",
			IncorrectAnswers: []string{"Aggress", "Regress", "Digress"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Science &amp; Nature",
			Question:         "In human biology, a circadium rhythm relates to a period of roughly how many hours?",
			CorrectAnswer:    "24",
			IncorrectAnswers: []string{"8", "16", "32"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "History",
			Question:         "When was the United States National Security Agency established?",
			CorrectAnswer:    "November 4, 1952",
			IncorrectAnswers: []string{"July 26, 1908", " July 1, 1973", " November 25, 2002"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Entertainment: Video Games",
			Question:         "How many stars are there to collect in Super Mario 64?",
			CorrectAnswer:    "120",
			IncorrectAnswers: []string{"60", "80", "100"},
		},
		{
			Type:             "multiple",
			Difficulty:       "easy",
			Category:         "Geography",
			Question:         "Which country does Austria not border?",
			CorrectAnswer:    "France",
			IncorrectAnswers: []string{"Slovenia", "Switzerland", "Slovakia"},
		},
		{
			Type:             "multiple",
			Difficulty:       "easy",
			Category:         "Entertainment: Video Games",
			Question:         "In the game &quot;Overwatch,&quot; what are the names of the two Australian criminals from the Junkers faction?",
			CorrectAnswer:    "Junkrat and Roadhog",
			IncorrectAnswers: []string{"Roadrat and Junkhog", "Ana and Pharah", "McCree and Deadeye"},
		},
		{
			Type:             "multiple",
			Difficulty:       "medium",
			Category:         "Geography",
			Question:         "On a London Underground map, what colour is the Circle Line?",
			CorrectAnswer:    "Yellow",
			IncorrectAnswers: []string{"Red", "Blue", "Green"},
		},
	}
}
