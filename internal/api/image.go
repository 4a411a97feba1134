package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recettes/backend/internal/middleware"
	"github.com/pageza/recettes/backend/internal/types"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type ImageHandler struct {
	uploader  ImageUploader
	validator middleware.TokenValidator
}

// NewImageHandler creates the upload endpoint. A nil uploader answers 503.
func NewImageHandler(uploader ImageUploader, validator middleware.TokenValidator) *ImageHandler {
	return &ImageHandler{uploader: uploader, validator: validator}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/images", middleware.AuthMiddleware(h.validator), h.Upload)
}

// Upload expects a multipart form with the file in the "image" field.
func (h *ImageHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, middleware.ErrorResponse{Error: "image storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "missing image file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "unreadable image file")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.ImageUploadResponse{URL: url})
}
