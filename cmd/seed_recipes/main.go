package main

import (
	"context"
	"flag"
	"log"

	"github.com/pageza/recettes/backend/config"
	"github.com/pageza/recettes/backend/internal/database"
	"github.com/pageza/recettes/backend/internal/logging"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/pageza/recettes/backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	fixturePath := flag.String("fixture", "cmd/seed_recipes/recipes.yaml", "YAML file with the users and recipes to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	fixture, err := LoadFixture(*fixturePath)
	if err != nil {
		logger.Fatal("Invalid fixture", zap.String("path", *fixturePath), zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	store := repository.NewGormStore(db, repository.WithSortLocale(cfg.SortTag()))
	categories := service.NewCategoryService(store, logger)
	recipes := service.NewRecipeService(store, categories, logger, service.WithSortLocale(cfg.SortTag()))
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, nil, logger)

	created, err := Seed(context.Background(), fixture, auth, recipes, logger)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Int("created", created), zap.Error(err))
	}
	logger.Info("Seeding complete", zap.Int("users", len(fixture.Users)), zap.Int("recipes", created))
}
