package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/golang-cz/devslog"
	_ "github.com/lib/pq"
	"github.com/nexaread/backend/internal/auth"
	"github.com/nexaread/backend/internal/core"
	"github.com/nexaread/backend/internal/mail"
	"github.com/nexaread/backend/internal/utils/databaseutils"
)

type application struct {
	config config
	logger *slog.Logger
	core   *core.Core
	auth   *auth.Auth
	mail   *mail.Sender
	wg     sync.WaitGroup
}

func main() {
	logger := configLogger()
	logger.Info("Starting application...")

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	db, err := openDBConnection(cfg.databaseURL)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Database connection established successfully")

	sqlTemplate := databaseutils.NewSQLTemplate(db, 3*time.Second)
	session := databaseutils.NewSession(db)

	app := application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(db, logger, sqlTemplate, session),
		auth:   auth.NewAuth(cfg.accessTokenSecret, cfg.refreshTokenSecret),
		mail:   mail.NewSender(cfg.emailAPIKey, cfg.emailFromAddress, cfg.emailFromName),
		wg:     sync.WaitGroup{},
	}

	if err := app.serve(); err != nil {
		logger.Error("Error starting server", "error", err)
		os.Exit(1)
	}
}

func configLogger() *slog.Logger {
	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	logger := slog.New(handler)
	return logger
}

func openDBConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
