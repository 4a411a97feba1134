package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/recettes/backend/internal/api"
	"github.com/pageza/recettes/backend/internal/middleware"
	"go.uber.org/zap"
)

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Auth       *api.AuthHandler
	Recipes    *api.RecipeHandler
	Categories *api.CategoryHandler
	Images     *api.ImageHandler
	Health     *api.HealthHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(corsOrigins))

	router.GET("/health", h.Health.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.HealthCheck)
	h.Auth.RegisterRoutes(v1)
	h.Recipes.RegisterRoutes(v1)
	h.Categories.RegisterRoutes(v1)
	h.Images.RegisterRoutes(v1)

	return router
}
