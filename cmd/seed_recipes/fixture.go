package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document describing the demo accounts and recipes.
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Recipes []FixtureRecipe `yaml:"recipes"`
}

type FixtureUser struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type FixtureRecipe struct {
	Owner       string  `yaml:"owner"`
	Title       string  `yaml:"title"`
	Description *string `yaml:"description"`
	ImageURL    *string `yaml:"image_url"`
	Diet        string  `yaml:"diet"`
	CookTime    string  `yaml:"cook_time"`
	Technique   string  `yaml:"technique"`
	Difficulty  string  `yaml:"difficulty"`
}

func (r FixtureRecipe) attributes() models.CategoryAttributes {
	return models.CategoryAttributes{
		Diet:       r.Diet,
		CookTime:   r.CookTime,
		Technique:  r.Technique,
		Difficulty: r.Difficulty,
	}
}

// LoadFixture reads and checks a fixture file. Every recipe owner must be
// one of the fixture users and every category value must be known.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	owners := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		owners[u.Email] = true
	}
	for i, r := range f.Recipes {
		if r.Title == "" {
			return nil, fmt.Errorf("recipe %d: title is required", i)
		}
		if !owners[r.Owner] {
			return nil, fmt.Errorf("recipe %q: unknown owner %q", r.Title, r.Owner)
		}
		if field, ok := models.ValidateCategoryAttributes(r.attributes()); !ok {
			return nil, fmt.Errorf("recipe %q: unknown value for %s", r.Title, field)
		}
	}
	return &f, nil
}

type accounts interface {
	Register(ctx context.Context, email, password, username string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type recipeCreator interface {
	CreateRecipe(ctx context.Context, session *service.Session, input service.CreateRecipeInput) (*models.Recipe, error)
}

// Seed creates the fixture users, reusing existing accounts, then creates
// the recipes on behalf of their owners. It returns the number of recipes
// created.
func Seed(ctx context.Context, f *Fixture, auth accounts, recipes recipeCreator, logger *zap.Logger) (int, error) {
	sessions := make(map[string]*service.Session, len(f.Users))
	for _, u := range f.Users {
		user, _, err := auth.Register(ctx, u.Email, u.Password, u.Username)
		if errors.Is(err, service.ErrUserExists) {
			user, _, err = auth.Login(ctx, u.Email, u.Password)
		}
		if err != nil {
			return 0, fmt.Errorf("user %s: %w", u.Email, err)
		}
		sessions[u.Email] = &service.Session{UserID: user.ID}
		logger.Info("seeded user", zap.String("email", u.Email), zap.String("user_id", user.ID.String()))
	}

	created := 0
	for _, r := range f.Recipes {
		recipe, err := recipes.CreateRecipe(ctx, sessions[r.Owner], service.CreateRecipeInput{
			Title:              r.Title,
			Description:        r.Description,
			ImageURL:           r.ImageURL,
			CategoryAttributes: r.attributes(),
		})
		if err != nil {
			return created, fmt.Errorf("recipe %q: %w", r.Title, err)
		}
		created++
		logger.Info("seeded recipe", zap.String("title", recipe.Title), zap.String("recipe_id", recipe.ID.String()))
	}
	return created, nil
}
