package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-session-service/internal/domain"
)

// QuestionSource serves quiz questions from an operator-seeded Postgres
// bank, as an alternative to the remote trivia API.
type QuestionSource struct {
	pool *pgxpool.Pool
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{pool: pool}
}

// FetchQuestions samples amount random questions from the bank.
func (s *QuestionSource) FetchQuestions(ctx context.Context, amount int) ([]domain.RawQuestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT type, difficulty, category, prompt, correct_answer, incorrect_answers
		 FROM questions ORDER BY random() LIMIT $1`, amount)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.RawQuestion
	for rows.Next() {
		var q domain.RawQuestion
		var incorrect []byte
		if err := rows.Scan(&q.Type, &q.Difficulty, &q.Category, &q.Question, &q.CorrectAnswer, &incorrect); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(incorrect, &q.IncorrectAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal incorrect answers: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
