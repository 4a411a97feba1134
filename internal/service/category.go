package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"go.uber.org/zap"
)

// CategoryService resolves category tuples to category ids.
type CategoryService struct {
	store  repository.RecipeStore
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(store repository.RecipeStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// ResolveCategory returns the id of the category whose four attributes equal
// attrs exactly, creating the row on first use. Results are not cached.
func (s *CategoryService) ResolveCategory(ctx context.Context, attrs models.CategoryAttributes) (uuid.UUID, error) {
	if missing := missingAttributes(attrs); len(missing) > 0 {
		return uuid.Nil, fmt.Errorf("%w: missing %s", ErrInvalidCategory, strings.Join(missing, ", "))
	}

	existing, err := s.store.FindCategory(ctx, attrs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrCategoryLookupFailed, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	category := &models.Category{
		Diet:       attrs.Diet,
		CookTime:   attrs.CookTime,
		Technique:  attrs.Technique,
		Difficulty: attrs.Difficulty,
	}
	inserted, err := s.store.InsertCategory(ctx, category)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrCategoryCreateFailed, err)
	}
	if inserted {
		s.logger.Info("created category",
			zap.String("category_id", category.ID.String()),
			zap.String("diet", attrs.Diet),
			zap.String("cook_time", attrs.CookTime),
			zap.String("technique", attrs.Technique),
			zap.String("difficulty", attrs.Difficulty))
		return category.ID, nil
	}

	// A concurrent writer created the same tuple between lookup and insert.
	existing, err = s.store.FindCategory(ctx, attrs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrCategoryLookupFailed, err)
	}
	if existing == nil {
		return uuid.Nil, fmt.Errorf("%w: category vanished after conflicting insert", ErrCategoryCreateFailed)
	}
	return existing.ID, nil
}

func missingAttributes(attrs models.CategoryAttributes) []string {
	var missing []string
	for _, a := range []struct{ name, value string }{
		{"diet", attrs.Diet},
		{"cook_time", attrs.CookTime},
		{"technique", attrs.Technique},
		{"difficulty", attrs.Difficulty},
	} {
		if strings.TrimSpace(a.value) == "" {
			missing = append(missing, a.name)
		}
	}
	return missing
}

// ListCategoryOptions returns the selectable attribute values.
func (s *CategoryService) ListCategoryOptions() models.CategoryOptions {
	return models.KnownCategoryOptions()
}
