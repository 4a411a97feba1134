package testhelpers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockRecipeStore is a mock implementation of repository.RecipeStore
type MockRecipeStore struct {
	mock.Mock
	Caps repository.Capabilities
}

func (m *MockRecipeStore) Capabilities() repository.Capabilities {
	return m.Caps
}

func (m *MockRecipeStore) FindCategory(ctx context.Context, attrs models.CategoryAttributes) (*models.Category, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockRecipeStore) InsertCategory(ctx context.Context, category *models.Category) (bool, error) {
	args := m.Called(ctx, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeStore) InsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeStore) FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) SaveRecipe(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeStore) QueryRecipes(ctx context.Context, q repository.RecipeQuery) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, q)
	var recipes []models.Recipe
	if args.Get(0) != nil {
		recipes = args.Get(0).([]models.Recipe)
	}
	return recipes, args.Get(1).(int64), args.Error(2)
}

// MockObjectPutter is a mock of the S3 PutObject call
type MockObjectPutter struct {
	mock.Mock
}

func (m *MockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}
