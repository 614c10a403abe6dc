package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"calibration-quiz-service/internal/app"
	"calibration-quiz-service/internal/config"
	"calibration-quiz-service/internal/domain"
	"calibration-quiz-service/internal/infra/memory"
	pgstore "calibration-quiz-service/internal/infra/postgres"
	redisstore "calibration-quiz-service/internal/infra/redis"
	transport "calibration-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the calibration quiz server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisstore.NewQuestionRepository(redisClient, loader, quizTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, quizTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, time.Hour)
	var sessions transport.SessionStore
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	var history app.ScoreHistory
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bundb := bun.NewDB(sqldb, pgdialect.New())
		defer bundb.Close()
		history = pgstore.NewScoreStore(bundb)
	}

	setID := cfg.Quiz.Set
	if setID == "" {
		setID = "default"
	}
	service := app.NewQuizService(questionRepo, history, setID, cfg.Quiz.SampleSize)
	handler := transport.NewHandler(service, sessions)
	wsHandler := transport.NewWSHandler(service, sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting calibration quiz service on :%s", finalPort)
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

// sampleQuestionSets provides a minimal bundled pool; deployments load their
// pools from Postgres instead.
func sampleQuestionSets() map[string][]domain.Question {
	return map[string][]domain.Question{
		"default": {
			{Question: "What is the height of Mount Everest in meters?", Answer: json.Number("8849")},
			{Question: "What is the population of Iceland?", Answer: json.Number("372000")},
			{Question: "What is the distance from the Earth to the Moon in km?", Answer: json.Number("384400")},
			{Question: "What is the mass of an electron in kg?", Answer: json.Number("9.1e-31")},
			{Question: "In what year was the printing press invented?", Answer: json.Number("1440")},
			{Question: "How many km of coastline does Norway have?", Answer: json.Number("58133")},
			{Question: "What is the speed of light in m/s?", Answer: json.Number("299792458")},
			{Question: "How many bones are in the adult human body?", Answer: json.Number("206")},
			{Question: "What is the deepest point of the ocean in meters?", Answer: json.Number("10935")},
			{Question: "How many litres of water does an average bathtub hold?", Answer: json.Number("150")},
		},
	}
}
