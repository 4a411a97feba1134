package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recettes/backend/internal/middleware"
	"github.com/pageza/recettes/backend/internal/service"
)

// statusFor maps service errors to HTTP status codes and the message shown
// to clients. Unknown errors become a generic 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden, "not allowed to modify this recipe"
	case errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound, "recipe not found"
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidListParams),
		errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, "an account already exists for this email"
	case errors.Is(err, service.ErrRecipeListFailed):
		return http.StatusInternalServerError, "Erreur lors du chargement des recettes."
	case errors.Is(err, service.ErrRecipeDeleteFailed):
		return http.StatusInternalServerError, "Erreur lors de la suppression."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes err as a JSON error and records it on the context for
// the request logger.
func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, middleware.ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{Error: msg})
}
