package main

import (
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pageza/recettes/backend/config"
	"github.com/pageza/recettes/backend/internal/database"
	"github.com/pageza/recettes/backend/internal/logging"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the .sql migrations")
	flag.Parse()

	logger, err := logging.New(config.GetEnvironment(), os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Fatal("DATABASE_URL is not set and configuration is invalid", zap.Error(err))
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *rollback {
		name, err := database.Rollback(db, *migrationsDir, logger)
		if errors.Is(err, database.ErrNoMigrations) {
			logger.Info("No migrations to rollback")
			return
		}
		if err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		logger.Info("Rolled back migration", zap.String("name", name))
		return
	}

	applied, err := database.RunMigrations(db, *migrationsDir, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("Migrations complete", zap.Int("applied", len(applied)))
}
