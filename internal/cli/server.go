package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/config"
	"quiz-session-service/internal/infra/memory"
	pgsource "quiz-session-service/internal/infra/postgres"
	redissession "quiz-session-service/internal/infra/redis"
	"quiz-session-service/internal/opentdb"
	transport "quiz-session-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	budget := config.Duration(cfg.Quiz.TimeLimit, app.DefaultTimeBudget)

	var source app.QuestionSource
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = pgsource.NewQuestionSource(pool)
	} else {
		httpClient := &http.Client{Timeout: config.Duration(cfg.OpenTDB.Timeout, 10*time.Second)}
		source = opentdb.NewClient(cfg.OpenTDB.URL, httpClient)
	}

	var store app.SessionRepository
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisTTL := config.Duration(cfg.Redis.TTL, budget)
		store = redissession.NewSessionStore(redisClient, redisTTL, budget)
	} else {
		store = memory.NewSessionStore(budget)
	}

	service := app.NewSessionService(store, source, memory.SampleQuestions(), cfg.Quiz.QuestionCount)

	sweepInterval := config.Duration(cfg.Cleanup.Interval, 10*time.Minute)
	maxAge := config.Duration(cfg.Cleanup.MaxAge, 2*budget)
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(sweepInterval).Do(func() {
		if removed := service.SweepIdle(maxAge); removed > 0 {
			log.Printf("swept %d idle sessions", removed)
		}
	}); err != nil {
		return err
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
