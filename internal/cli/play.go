package cli

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/config"
	"quiz-session-service/internal/infra/memory"
	"quiz-session-service/internal/opentdb"
	transport "quiz-session-service/internal/transport/http"
)

// NewPlayCmd builds the terminal quiz player. It drives the same session
// core as the server, with stdin/stdout as the presentation layer.
func NewPlayCmd(configPath *string) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), cfg, email, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email to play as (prompted when empty)")
	return cmd
}

func runPlay(ctx context.Context, cfg config.Config, email string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for !transport.ValidEmail(email) {
		fmt.Fprint(out, "Enter your email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
		if !transport.ValidEmail(email) {
			fmt.Fprintln(out, "Please enter a valid email address.")
		}
	}

	budget := config.Duration(cfg.Quiz.TimeLimit, app.DefaultTimeBudget)
	store := memory.NewSessionStore(budget)
	httpClient := &http.Client{Timeout: config.Duration(cfg.OpenTDB.Timeout, 10*time.Second)}
	source := opentdb.NewClient(cfg.OpenTDB.URL, httpClient)
	service := app.NewSessionService(store, source, memory.SampleQuestions(), cfg.Quiz.QuestionCount)

	snapshot, err := service.Start(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWelcome, %s. You have %s for %d questions.\n",
		email, formatClock(snapshot.TimeRemainingSeconds), snapshot.TotalQuestions)
	fmt.Fprintln(out, "Answer with a letter, press Enter to skip, or '-' to clear.")

	for idx, question := range snapshot.Questions {
		if _, err := service.GoTo(email, idx); err != nil {
			return err
		}
		printQuestion(out, idx+1, snapshot.TotalQuestions, question.Prompt, question.Options)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		choice := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case choice == "":
			// skipped, stays unanswered
		case choice == "-":
			if _, err := service.ClearAnswer(email, question.ID); err != nil {
				return err
			}
		case len(choice) == 1 && choice[0] >= 'A' && int(choice[0]-'A') < len(question.Options):
			if _, err := service.Answer(email, question.ID, question.Options[choice[0]-'A']); err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, "Unrecognized input, leaving unanswered.")
		}
	}

	result, err := service.Submit(email)
	if err != nil {
		return err
	}
	printResult(out, result)
	return nil
}

func printQuestion(out io.Writer, number, total int, prompt string, options []string) {
	fmt.Fprintf(out, "\nQ%d/%d: %s\n\n", number, total, html.UnescapeString(prompt))
	for idx, option := range options {
		fmt.Fprintf(out, "  %c. %s\n", 'A'+idx, html.UnescapeString(option))
	}
	fmt.Fprint(out, "\n> ")
}
