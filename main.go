package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"spamguard/internal/apiclient"
	"spamguard/internal/config"
	"spamguard/internal/notifier"
	"spamguard/internal/pipeline"
	"spamguard/internal/repository"
	"spamguard/internal/retention"
	"spamguard/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if v := os.Getenv("SPAMGUARD_CONFIG"); v != "" {
		cfgPath = v
	}
	cfg, err := config.LoadConfig(cfgPath, logger)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	scanLogRepo := repository.NewScanLogRepository(db, logger)

	// Initialize scoring service client
	client := apiclient.NewClient(cfg.API.Key, cfg.API.URL, cfg.API.TimeoutSeconds, logger)
	if !client.IsConfigured() {
		logger.Warn("Scoring API key is not set, spam checks will be skipped")
	}

	// Initialize admin notifier (optional)
	adminNotifier, err := notifier.NewTelegram(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize admin notifier, continuing without it", zap.Error(err))
		adminNotifier = nil
	}

	// Initialize the decision pipeline
	pipe := pipeline.NewPipeline(cfg, client, scanLogRepo, adminNotifier, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run log retention cleanup in a goroutine
	cleaner := retention.NewCleaner(scanLogRepo, cfg.Logs.RetentionDays, time.Hour, logger)
	go cleaner.Run(ctx)

	// Initialize and run the server
	srv := server.NewServer(cfg, client, pipe, scanLogRepo, logger)
	go srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
