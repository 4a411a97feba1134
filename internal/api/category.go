package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recettes/backend/internal/models"
)

// CategoryOptionsLister lists the selectable category values.
type CategoryOptionsLister interface {
	ListCategoryOptions() models.CategoryOptions
}

type CategoryHandler struct {
	categories CategoryOptionsLister
}

func NewCategoryHandler(categories CategoryOptionsLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories/options", h.Options)
}

func (h *CategoryHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.categories.ListCategoryOptions())
}
