package types

import (
	"github.com/pageza/recettes/backend/internal/models"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,max=50"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Diet        string  `json:"diet" binding:"required"`
	CookTime    string  `json:"cook_time" binding:"required"`
	Technique   string  `json:"technique" binding:"required"`
	Difficulty  string  `json:"difficulty" binding:"required"`
}

// UpdateRecipeRequest represents a partial update. Absent fields are left
// unchanged; description and image_url may be set to null to clear them.
type UpdateRecipeRequest struct {
	Title       *string               `json:"title"`
	Description models.OptionalString `json:"description"`
	ImageURL    models.OptionalString `json:"image_url"`
	Diet        *string               `json:"diet"`
	CookTime    *string               `json:"cook_time"`
	Technique   *string               `json:"technique"`
	Difficulty  *string               `json:"difficulty"`
}

// ListRecipesQuery binds the recipe listing query string
type ListRecipesQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Search     string `form:"search"`
	Diet       string `form:"diet"`
	CookTime   string `form:"cook_time"`
	Technique  string `form:"technique"`
	Difficulty string `form:"difficulty"`
	Owner      string `form:"owner"`
	Sort       string `form:"sort"`
}

// ListRecipesResponse is one page of the recipe listing
type ListRecipesResponse struct {
	Recipes    []models.Recipe `json:"recipes"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ImageUploadResponse carries the public URL of an uploaded image
type ImageUploadResponse struct {
	URL string `json:"url"`
}
