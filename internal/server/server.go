package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recettes/backend/config"
	"github.com/pageza/recettes/backend/internal/api"
	"github.com/pageza/recettes/backend/internal/database"
	"github.com/pageza/recettes/backend/internal/middleware"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/pageza/recettes/backend/internal/router"
	"github.com/pageza/recettes/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// shutdownTimeout bounds how long in-flight requests may run after Start's
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// Deps are the external connections the server is built on. Redis and S3
// are optional.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	S3    *config.S3Config
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger *zap.Logger
}

// New wires the store, services and handlers and returns a server ready to
// Start.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	locale := cfg.SortTag()
	store := repository.NewGormStore(deps.DB,
		repository.WithServerOrdering(cfg.StoreServerOrdering),
		repository.WithSortLocale(locale),
	)

	categories := service.NewCategoryService(store, logger)
	recipes := service.NewRecipeService(store, categories, logger,
		service.WithSortLocale(locale),
		service.WithMaxPageSize(cfg.MaxPageSize),
	)

	// a nil *redis.Client must not reach the interfaces below
	var revoker service.TokenRevoker
	var limiterClient redis.Cmdable
	checks := map[string]api.HealthChecker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, deps.DB) },
	}
	if deps.Redis != nil {
		revoker = service.NewRedisRevoker(deps.Redis, "")
		limiterClient = deps.Redis
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	auth := service.NewAuthService(deps.DB, cfg.JWTSecret, cfg.JWTTTL, revoker, logger)

	var uploader api.ImageUploader
	if deps.S3 != nil {
		uploader = service.NewImageService(deps.S3, logger)
	}

	limiter := middleware.NewRecipeMutationRateLimiter(limiterClient, cfg.RateLimit, cfg.RateLimitWindow, logger)

	engine := router.SetupRouter(router.Handlers{
		Auth:       api.NewAuthHandler(auth),
		Recipes:    api.NewRecipeHandler(recipes, auth, limiter, cfg.DefaultPageSize),
		Categories: api.NewCategoryHandler(categories),
		Images:     api.NewImageHandler(uploader, auth),
		Health:     api.NewHealthHandler(checks),
	}, cfg.CORSOrigins, logger)

	return &Server{
		cfg:    cfg,
		router: engine,
		logger: logger,
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
