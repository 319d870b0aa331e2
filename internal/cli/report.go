package cli

import (
	"fmt"
	"html"
	"io"

	"quiz-session-service/internal/domain"
)

func printResult(out io.Writer, result domain.Result) {
	fmt.Fprintf(out, "\n%s\n", scoreBanner(result.Score))
	fmt.Fprintf(out, "Score: %d%% (%d/%d correct)\n", result.Score, result.CorrectAnswers, result.TotalQuestions)
	fmt.Fprintf(out, "Time spent: %s", formatClock(result.TimeSpentSeconds))
	if result.TotalQuestions > 0 {
		fmt.Fprintf(out, " (avg %s per question)", formatClock(result.TimeSpentSeconds/result.TotalQuestions))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "\nBreakdown:")
	for idx, question := range result.Questions {
		mark := "x"
		detail := "unanswered, correct answer: " + html.UnescapeString(question.CorrectAnswer)
		switch {
		case question.Correct():
			mark = "+"
			detail = html.UnescapeString(question.UserAnswer)
		case question.Answered():
			detail = fmt.Sprintf("%s, correct answer: %s",
				html.UnescapeString(question.UserAnswer), html.UnescapeString(question.CorrectAnswer))
		}
		fmt.Fprintf(out, "  %s Q%d: %s\n      %s\n", mark, idx+1, html.UnescapeString(question.Prompt), detail)
	}
}

// scoreBanner mirrors the result page's tiers.
func scoreBanner(score int) string {
	switch {
	case score >= 90:
		return "Outstanding!"
	case score >= 80:
		return "Great job!"
	case score >= 70:
		return "Well done!"
	case score >= 60:
		return "Not bad!"
	default:
		return "Keep practicing!"
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
