package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Session identifies the caller of a recipe operation.
type Session struct {
	UserID uuid.UUID
}

func (s *Session) authenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// CreateRecipeInput carries the fields of a new recipe.
type CreateRecipeInput struct {
	Title       string
	Description *string
	ImageURL    *string
	models.CategoryAttributes
}

// RecipePatch carries a partial update. Nil pointers and unset optionals
// leave the stored value untouched.
type RecipePatch struct {
	Title       *string
	Description models.OptionalString
	ImageURL    models.OptionalString
	Diet        *string
	CookTime    *string
	Technique   *string
	Difficulty  *string
}

func (p RecipePatch) touchesCategory() bool {
	return p.Diet != nil || p.CookTime != nil || p.Technique != nil || p.Difficulty != nil
}

// RecipeService handles recipe operations
type RecipeService struct {
	store       repository.RecipeStore
	categories  *CategoryService
	logger      *zap.Logger
	locale      language.Tag
	maxPageSize int
}

// RecipeOption configures a RecipeService.
type RecipeOption func(*RecipeService)

// WithSortLocale sets the locale used for title comparison.
func WithSortLocale(tag language.Tag) RecipeOption {
	return func(s *RecipeService) {
		s.locale = tag
	}
}

// WithMaxPageSize caps the page size accepted by ListRecipes.
func WithMaxPageSize(n int) RecipeOption {
	return func(s *RecipeService) {
		s.maxPageSize = n
	}
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store repository.RecipeStore, categories *CategoryService, logger *zap.Logger, opts ...RecipeOption) *RecipeService {
	s := &RecipeService{
		store:       store,
		categories:  categories,
		logger:      logger,
		locale:      language.French,
		maxPageSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecipeService) collator() *collate.Collator {
	return collate.New(s.locale)
}

// CreateRecipe resolves the category and stores a recipe owned by the caller.
func (s *RecipeService) CreateRecipe(ctx context.Context, session *Session, input CreateRecipeInput) (*models.Recipe, error) {
	if !session.authenticated() {
		return nil, ErrNotAuthenticated
	}

	categoryID, err := s.categories.ResolveCategory(ctx, input.CategoryAttributes)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		OwnerID:     session.UserID,
		CategoryID:  &categoryID,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.store.InsertRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeCreateFailed, err)
	}

	created, err := s.store.FindRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeCreateFailed, err)
	}
	if created == nil {
		return nil, fmt.Errorf("%w: inserted row not readable", ErrRecipeCreateFailed)
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", created.ID.String()),
		zap.String("owner_id", created.OwnerID.String()))
	return created, nil
}

// GetRecipe retrieves a recipe by ID together with its category.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.store.FindRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeFetchFailed, err)
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// UpdateRecipe applies patch to a recipe owned by the caller.
func (s *RecipeService) UpdateRecipe(ctx context.Context, session *Session, id uuid.UUID, patch RecipePatch) (*models.Recipe, error) {
	if !session.authenticated() {
		return nil, ErrNotAuthenticated
	}

	recipe, err := s.store.FindRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeUpdateFailed, err)
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	if recipe.OwnerID != session.UserID {
		return nil, ErrNotAuthorized
	}

	if patch.touchesCategory() {
		var current models.CategoryAttributes
		if recipe.Category != nil {
			current = recipe.Category.Attributes()
		}
		categoryID, err := s.categories.ResolveCategory(ctx, models.CategoryAttributes{
			Diet:       valueOr(patch.Diet, current.Diet),
			CookTime:   valueOr(patch.CookTime, current.CookTime),
			Technique:  valueOr(patch.Technique, current.Technique),
			Difficulty: valueOr(patch.Difficulty, current.Difficulty),
		})
		if err != nil {
			return nil, err
		}
		recipe.CategoryID = &categoryID
	}

	if patch.Title != nil {
		recipe.Title = *patch.Title
	}
	if patch.Description.Set {
		recipe.Description = patch.Description.Value
	}
	if patch.ImageURL.Set {
		recipe.ImageURL = patch.ImageURL.Value
	}

	if err := s.store.SaveRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeUpdateFailed, err)
	}

	updated, err := s.store.FindRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeUpdateFailed, err)
	}
	if updated == nil {
		return nil, ErrRecipeNotFound
	}
	return updated, nil
}

// DeleteRecipe removes a recipe owned by the caller. Deleting an unknown id
// succeeds.
func (s *RecipeService) DeleteRecipe(ctx context.Context, session *Session, id uuid.UUID) error {
	if !session.authenticated() {
		return ErrNotAuthenticated
	}

	recipe, err := s.store.FindRecipe(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRecipeDeleteFailed, err)
	}
	if recipe == nil {
		return nil
	}
	if recipe.OwnerID != session.UserID {
		return ErrNotAuthorized
	}

	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrRecipeDeleteFailed, err)
	}
	s.logger.Info("recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

func valueOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}
