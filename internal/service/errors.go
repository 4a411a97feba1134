package service

import "errors"

// Recipe and category failures. Each operation raises at most one of these,
// joined with the underlying cause; none are retried.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrCategoryLookupFailed = errors.New("category lookup failed")
	ErrCategoryCreateFailed = errors.New("category creation failed")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrRecipeFetchFailed    = errors.New("recipe fetch failed")
	ErrRecipeCreateFailed   = errors.New("recipe creation failed")
	ErrRecipeUpdateFailed   = errors.New("recipe update failed")
	ErrRecipeDeleteFailed   = errors.New("recipe deletion failed")
	ErrRecipeListFailed     = errors.New("recipe listing failed")
	ErrInvalidListParams    = errors.New("invalid list parameters")
	ErrInvalidSort          = errors.New("invalid sort")
)

// Authentication failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Image upload failures.
var (
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrImageTooLarge     = errors.New("image too large")
	ErrImageUploadFailed = errors.New("image upload failed")
)
