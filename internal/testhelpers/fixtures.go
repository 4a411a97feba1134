package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of users made by CreateTestUser.
const TestPassword = "testpassword123"

// CreateTestUser creates a user with a unique email and TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	id := uuid.New()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("testuser+%s@example.com", id),
		Username:     "testuser",
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory inserts the category for attrs.
func CreateTestCategory(t *testing.T, db *gorm.DB, attrs models.CategoryAttributes) *models.Category {
	t.Helper()
	category := &models.Category{
		Diet:       attrs.Diet,
		CookTime:   attrs.CookTime,
		Technique:  attrs.Technique,
		Difficulty: attrs.Difficulty,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestRecipe inserts a recipe owned by ownerID through the store, so
// the derived title columns use the default sort locale. category may be
// nil. createdAt pins the creation time so date ordering is deterministic.
func CreateTestRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string, category *models.Category, createdAt time.Time) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if category != nil {
		recipe.CategoryID = &category.ID
	}
	if err := repository.NewGormStore(db).InsertRecipe(context.Background(), recipe); err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// VeganQuickOven is a category tuple used across tests.
var VeganQuickOven = models.CategoryAttributes{
	Diet:       "Vegan",
	CookTime:   "Rapide",
	Technique:  "Four",
	Difficulty: "Facile",
}
