package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pageza/recettes/backend/config"
	"github.com/pageza/recettes/backend/internal/database"
	"github.com/pageza/recettes/backend/internal/logging"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/pageza/recettes/backend/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	// postgres schemas are managed by cmd/migrate
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// existing rows need sort keys for the configured locale
	store := repository.NewGormStore(db, repository.WithSortLocale(cfg.SortTag()))
	refreshed, err := store.RefreshTitleColumns(context.Background(), !cfg.RebuildSortKeys)
	if err != nil {
		logger.Fatal("Failed to refresh recipe sort keys", zap.Error(err))
	}
	if refreshed > 0 {
		logger.Info("Refreshed recipe sort keys", zap.Int("recipes", refreshed), zap.String("locale", cfg.SortTag().String()))
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{DB: db, Redis: redisClient}
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn("Image storage disabled", zap.Error(err))
	} else {
		deps.S3 = s3Config
	}

	srv := server.New(cfg, deps, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
