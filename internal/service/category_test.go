package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/pageza/recettes/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveCategoryIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	categories := NewCategoryService(repository.NewGormStore(db), zap.NewNop())
	ctx := context.Background()

	first, err := categories.ResolveCategory(ctx, testhelpers.VeganQuickOven)
	require.NoError(t, err)
	second, err := categories.ResolveCategory(ctx, testhelpers.VeganQuickOven)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveCategoryDistinctTuples(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	categories := NewCategoryService(repository.NewGormStore(db), zap.NewNop())
	ctx := context.Background()

	a, err := categories.ResolveCategory(ctx, testhelpers.VeganQuickOven)
	require.NoError(t, err)
	other := testhelpers.VeganQuickOven
	other.Difficulty = "Difficile"
	b, err := categories.ResolveCategory(ctx, other)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestResolveCategoryLookupFailure(t *testing.T) {
	store := &testhelpers.MockRecipeStore{}
	store.On("FindCategory", mock.Anything, testhelpers.VeganQuickOven).Return(nil, errors.New("connection reset"))
	categories := NewCategoryService(store, zap.NewNop())

	_, err := categories.ResolveCategory(context.Background(), testhelpers.VeganQuickOven)
	assert.ErrorIs(t, err, ErrCategoryLookupFailed)
	store.AssertNotCalled(t, "InsertCategory", mock.Anything, mock.Anything)
}

func TestResolveCategoryInsertFailure(t *testing.T) {
	store := &testhelpers.MockRecipeStore{}
	store.On("FindCategory", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("InsertCategory", mock.Anything, mock.Anything).Return(false, errors.New("disk full"))
	categories := NewCategoryService(store, zap.NewNop())

	_, err := categories.ResolveCategory(context.Background(), testhelpers.VeganQuickOven)
	assert.ErrorIs(t, err, ErrCategoryCreateFailed)
}

func TestResolveCategoryLosesInsertRace(t *testing.T) {
	winner := &models.Category{ID: uuid.New()}
	store := &testhelpers.MockRecipeStore{}
	store.On("FindCategory", mock.Anything, mock.Anything).Return(nil, nil).Once()
	store.On("InsertCategory", mock.Anything, mock.Anything).Return(false, nil)
	store.On("FindCategory", mock.Anything, mock.Anything).Return(winner, nil).Once()
	categories := NewCategoryService(store, zap.NewNop())

	id, err := categories.ResolveCategory(context.Background(), testhelpers.VeganQuickOven)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, id)
	store.AssertNumberOfCalls(t, "FindCategory", 2)
}

func TestResolveCategoryConflictWithoutRow(t *testing.T) {
	store := &testhelpers.MockRecipeStore{}
	store.On("FindCategory", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("InsertCategory", mock.Anything, mock.Anything).Return(false, nil)
	categories := NewCategoryService(store, zap.NewNop())

	_, err := categories.ResolveCategory(context.Background(), testhelpers.VeganQuickOven)
	assert.ErrorIs(t, err, ErrCategoryCreateFailed)
}

func TestListCategoryOptions(t *testing.T) {
	categories := NewCategoryService(&testhelpers.MockRecipeStore{}, zap.NewNop())

	opts := categories.ListCategoryOptions()
	assert.Contains(t, opts.Diet, "Vegan")
	assert.Contains(t, opts.Technique, "Four")

	opts.Diet[0] = "changed"
	assert.NotEqual(t, "changed", models.Diets[0])
}

func TestResolveCategoryRejectsIncompleteTuple(t *testing.T) {
	store := &testhelpers.MockRecipeStore{}
	categories := NewCategoryService(store, zap.NewNop())

	for _, attrs := range []models.CategoryAttributes{
		{},
		{Diet: "Vegan"},
		{Diet: "Vegan", CookTime: "Rapide", Technique: "Four", Difficulty: "  "},
	} {
		_, err := categories.ResolveCategory(context.Background(), attrs)
		assert.ErrorIs(t, err, ErrInvalidCategory, "%+v", attrs)
	}
	store.AssertNotCalled(t, "FindCategory", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "InsertCategory", mock.Anything, mock.Anything)
}
