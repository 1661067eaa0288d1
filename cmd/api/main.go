package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/localbook/localbook/internal/api"
	"github.com/localbook/localbook/internal/auth"
	"github.com/localbook/localbook/internal/booking"
	"github.com/localbook/localbook/internal/catalog"
	"github.com/localbook/localbook/internal/config"
	"github.com/localbook/localbook/internal/db"
	"github.com/localbook/localbook/internal/notify"
	"github.com/localbook/localbook/internal/store/postgres"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Bootstrap(ctx, pool); err != nil {
		logger.Fatal("bootstrap schema", zap.Error(err))
	}

	st := postgres.New(pool)
	authSvc := auth.NewService(st, cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	cat := catalog.New(st)
	notifier := buildNotifier(cfg, logger)
	engine := booking.NewEngine(st, notifier, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	server := api.New(authSvc, cat, engine, logger, pingFunc(pool))
	server.Register(e)

	logger.Info("api listening", zap.String("addr", cfg.HTTPAddr))
	if err := e.Start(cfg.HTTPAddr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildNotifier(cfg config.App, logger *zap.Logger) notify.Notifier {
	if cfg.SMTPHost == "" {
		logger.Info("smtp not configured, notifications go to the log")
		return &notify.LogNotifier{Log: logger}
	}
	mailer, err := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		logger.Warn("mailer unavailable, notifications go to the log", zap.Error(err))
		return &notify.LogNotifier{Log: logger}
	}
	return mailer
}

func pingFunc(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error { return pool.Ping(ctx) }
}
