package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/listing"
	"github.com/pageza/recettes/backend/internal/middleware"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/service"
	"github.com/pageza/recettes/backend/internal/types"
)

// RecipeService is the recipe behaviour the recipe endpoints need.
type RecipeService interface {
	CreateRecipe(ctx context.Context, session *service.Session, input service.CreateRecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, session *service.Session, id uuid.UUID, patch service.RecipePatch) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, session *service.Session, id uuid.UUID) error
	ListRecipes(ctx context.Context, params service.ListParams) (*service.ListResult, error)
}

type RecipeHandler struct {
	recipeService   RecipeService
	validator       middleware.TokenValidator
	limiter         *middleware.RateLimiter
	defaultPageSize int
}

// NewRecipeHandler creates the recipe endpoints. limiter may be nil.
func NewRecipeHandler(recipeService RecipeService, validator middleware.TokenValidator, limiter *middleware.RateLimiter, defaultPageSize int) *RecipeHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 6
	}
	return &RecipeHandler{
		recipeService:   recipeService,
		validator:       validator,
		limiter:         limiter,
		defaultPageSize: defaultPageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.validator), h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		limit := h.limiter.RateLimitMiddleware()
		recipes.POST("", auth, limit, h.CreateRecipe)
		recipes.PATCH("/:id", auth, limit, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, limit, h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.ListRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = h.defaultPageSize
	}
	sort, err := service.ParseSortMode(q.Sort)
	if err != nil {
		respondError(c, err)
		return
	}

	params := service.ListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Filters: models.CategoryAttributes{
			Diet:       q.Diet,
			CookTime:   q.CookTime,
			Technique:  q.Technique,
			Difficulty: q.Difficulty,
		},
		Owner: service.OwnerFilter(q.Owner),
		Sort:  sort,
	}
	if session := middleware.SessionFrom(c); session != nil {
		params.RequesterID = session.UserID
	}

	res, err := h.recipeService.ListRecipes(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ListRecipesResponse{
		Recipes:    res.Recipes,
		Total:      res.Total,
		Page:       q.Page,
		PageSize:   res.PageSize,
		TotalPages: listing.TotalPages(res.Total, res.PageSize),
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	attrs := models.CategoryAttributes{
		Diet:       req.Diet,
		CookTime:   req.CookTime,
		Technique:  req.Technique,
		Difficulty: req.Difficulty,
	}
	if field, ok := models.ValidateCategoryAttributes(attrs); !ok {
		badRequest(c, "unknown value for "+field)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.SessionFrom(c), service.CreateRecipeInput{
		Title:              req.Title,
		Description:        req.Description,
		ImageURL:           req.ImageURL,
		CategoryAttributes: attrs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Title != nil && *req.Title == "" {
		badRequest(c, "title must not be empty")
		return
	}
	for field, value := range map[string]*string{
		"diet":       req.Diet,
		"cook_time":  req.CookTime,
		"technique":  req.Technique,
		"difficulty": req.Difficulty,
	} {
		if value != nil && !models.IsKnownValue(field, *value) {
			badRequest(c, "unknown value for "+field)
			return
		}
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), middleware.SessionFrom(c), id, service.RecipePatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Diet:        req.Diet,
		CookTime:    req.CookTime,
		Technique:   req.Technique,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.SessionFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid recipe id")
		return uuid.Nil, false
	}
	return id, true
}
