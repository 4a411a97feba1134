// Package repository is the storage collaborator behind the recipe service.
// It exposes the table operations the service composes: maybe-one lookups,
// single-row writes and a filtered, ranged recipe query with a total count.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
)

// Capabilities describes what a store can do server-side. It is fixed when
// the store is constructed.
type Capabilities struct {
	ServerOrdering bool
}

// JoinMode selects how recipes are joined to their category.
type JoinMode int

const (
	// LeftJoin keeps recipes without a category row.
	LeftJoin JoinMode = iota
	// InnerJoin drops recipes without a matching category row.
	InnerJoin
)

// OwnerScope restricts a query by recipe owner.
type OwnerScope int

const (
	AnyOwner OwnerScope = iota
	OwnedBy
	NotOwnedBy
)

// SortField is a sortable recipe column.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "created_at"
)

// Order is a server-side ordering request.
type Order struct {
	Field SortField
	Desc  bool
}

// RecipeQuery describes one page of a recipe listing. From and To are
// zero-based and inclusive.
type RecipeQuery struct {
	Search  string
	Filters models.CategoryAttributes
	Join    JoinMode
	Owner   OwnerScope
	OwnerID uuid.UUID
	Order   *Order
	From    int
	To      int
}

// RecipeStore is the tabular store recipes and categories live in.
type RecipeStore interface {
	Capabilities() Capabilities

	// FindCategory returns nil, nil when no category matches all four attributes.
	FindCategory(ctx context.Context, attrs models.CategoryAttributes) (*models.Category, error)
	// InsertCategory reports false when an identical tuple already existed.
	InsertCategory(ctx context.Context, category *models.Category) (bool, error)

	InsertRecipe(ctx context.Context, recipe *models.Recipe) error
	// FindRecipe returns nil, nil when the id is unknown.
	FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	SaveRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error

	// QueryRecipes returns the requested range and the number of rows that
	// match before the range is applied.
	QueryRecipes(ctx context.Context, q RecipeQuery) ([]models.Recipe, int64, error)
}
