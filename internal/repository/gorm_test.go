package repository_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"github.com/pageza/recettes/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func titles(recipes []models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

func TestGormStoreCapabilities(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)

	assert.True(t, repository.NewGormStore(db).Capabilities().ServerOrdering)
	assert.False(t, repository.NewGormStore(db, repository.WithServerOrdering(false)).Capabilities().ServerOrdering)
}

func TestGormStoreCategories(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	found, err := store.FindCategory(ctx, testhelpers.VeganQuickOven)
	require.NoError(t, err)
	assert.Nil(t, found)

	category := &models.Category{Diet: "Vegan", CookTime: "Rapide", Technique: "Four", Difficulty: "Facile"}
	inserted, err := store.InsertCategory(ctx, category)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := &models.Category{Diet: "Vegan", CookTime: "Rapide", Technique: "Four", Difficulty: "Facile"}
	inserted, err = store.InsertCategory(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err = store.FindCategory(ctx, testhelpers.VeganQuickOven)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, category.ID, found.ID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormStoreRecipeLifecycle(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()
	owner := testhelpers.CreateTestUser(t, db)
	category := testhelpers.CreateTestCategory(t, db, testhelpers.VeganQuickOven)

	description := "A"
	recipe := &models.Recipe{OwnerID: owner.ID, CategoryID: &category.ID, Title: "Soupe", Description: &description}
	require.NoError(t, store.InsertRecipe(ctx, recipe))
	assert.NotEqual(t, uuid.Nil, recipe.ID)

	got, err := store.FindRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Category)
	assert.Equal(t, testhelpers.VeganQuickOven, got.Category.Attributes())
	assert.Equal(t, "A", *got.Description)

	got.Title = "Velouté"
	got.Description = nil
	require.NoError(t, store.SaveRecipe(ctx, got))

	got, err = store.FindRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Velouté", got.Title)
	assert.Nil(t, got.Description)

	require.NoError(t, store.DeleteRecipe(ctx, recipe.ID))
	got, err = store.FindRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.DeleteRecipe(ctx, uuid.New()))
}

// seed creates five recipes; Orphan has no category.
func seed(t *testing.T, db *gorm.DB) (owner, other *models.User) {
	t.Helper()
	owner = testhelpers.CreateTestUser(t, db)
	other = testhelpers.CreateTestUser(t, db)
	vegan := testhelpers.CreateTestCategory(t, db, testhelpers.VeganQuickOven)
	veggie := testhelpers.CreateTestCategory(t, db, models.CategoryAttributes{
		Diet: "Végétarien", CookTime: "Plus d'1h", Technique: "Poêle", Difficulty: "Difficile",
	})

	testhelpers.CreateTestRecipe(t, db, owner.ID, "Pesto", vegan, day)
	testhelpers.CreateTestRecipe(t, db, owner.ID, "Ramen", veggie, day.Add(48*time.Hour))
	testhelpers.CreateTestRecipe(t, db, other.ID, "Curry", vegan, day.Add(24*time.Hour))
	testhelpers.CreateTestRecipe(t, db, other.ID, "100%_pur", veggie, day.Add(72*time.Hour))
	testhelpers.CreateTestRecipe(t, db, other.ID, "Orphan", nil, day.Add(96*time.Hour))
	return owner, other
}

func TestGormStoreQueryRecipes(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()
	owner, _ := seed(t, db)

	byTitle := &repository.Order{Field: repository.SortByTitle}
	newest := &repository.Order{Field: repository.SortByCreatedAt, Desc: true}

	tests := []struct {
		name      string
		query     repository.RecipeQuery
		want      []string
		wantTotal int64
	}{
		{
			name:      "outer join keeps uncategorised recipes",
			query:     repository.RecipeQuery{Order: newest, From: 0, To: 9},
			want:      []string{"Orphan", "100%_pur", "Ramen", "Curry", "Pesto"},
			wantTotal: 5,
		},
		{
			name:      "range and total",
			query:     repository.RecipeQuery{Order: newest, From: 2, To: 3},
			want:      []string{"Ramen", "Curry"},
			wantTotal: 5,
		},
		{
			name:      "title ascending",
			query:     repository.RecipeQuery{Order: byTitle, From: 0, To: 9},
			want:      []string{"100%_pur", "Curry", "Orphan", "Pesto", "Ramen"},
			wantTotal: 5,
		},
		{
			name: "filter uses inner join",
			query: repository.RecipeQuery{
				Filters: models.CategoryAttributes{Diet: "Vegan"},
				Join:    repository.InnerJoin,
				Order:   byTitle, From: 0, To: 9,
			},
			want:      []string{"Curry", "Pesto"},
			wantTotal: 2,
		},
		{
			name: "filters combine with and",
			query: repository.RecipeQuery{
				Filters: models.CategoryAttributes{Diet: "Vegan", Difficulty: "Difficile"},
				Join:    repository.InnerJoin,
				From:    0, To: 9,
			},
			want:      []string{},
			wantTotal: 0,
		},
		{
			name:      "search is case-insensitive substring",
			query:     repository.RecipeQuery{Search: "RA", Order: byTitle, From: 0, To: 9},
			want:      []string{"Ramen"},
			wantTotal: 1,
		},
		{
			name:      "wildcards are literal",
			query:     repository.RecipeQuery{Search: "%_", Order: byTitle, From: 0, To: 9},
			want:      []string{"100%_pur"},
			wantTotal: 1,
		},
		{
			name:      "owned by",
			query:     repository.RecipeQuery{Owner: repository.OwnedBy, OwnerID: owner.ID, Order: byTitle, From: 0, To: 9},
			want:      []string{"Pesto", "Ramen"},
			wantTotal: 2,
		},
		{
			name:      "not owned by",
			query:     repository.RecipeQuery{Owner: repository.NotOwnedBy, OwnerID: owner.ID, Order: byTitle, From: 0, To: 9},
			want:      []string{"100%_pur", "Curry", "Orphan"},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, total, err := store.QueryRecipes(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.want, titles(recipes))
		})
	}
}

func TestGormStoreQueryPreloadsCategory(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := repository.NewGormStore(db)
	seed(t, db)

	recipes, _, err := store.QueryRecipes(context.Background(), repository.RecipeQuery{
		Search: "curry", From: 0, To: 5,
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.NotNil(t, recipes[0].Category)
	assert.Equal(t, "Vegan", recipes[0].Category.Diet)
}

func TestGormStoreIgnoresOrderWithoutCapability(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := repository.NewGormStore(db, repository.WithServerOrdering(false))
	seed(t, db)

	recipes, total, err := store.QueryRecipes(context.Background(), repository.RecipeQuery{
		Order: &repository.Order{Field: repository.SortByTitle},
		From:  0, To: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, recipes, 5)
}

func TestGormStorePostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()
	owner, _ := seed(t, db)

	recipes, total, err := store.QueryRecipes(ctx, repository.RecipeQuery{
		Search:  "e",
		Filters: models.CategoryAttributes{Technique: "Four"},
		Join:    repository.InnerJoin,
		Order:   &repository.Order{Field: repository.SortByTitle, Desc: true},
		From:    0, To: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Pesto"}, titles(recipes))

	inserted, err := store.InsertCategory(ctx, &models.Category{
		Diet: "Vegan", CookTime: "Rapide", Technique: "Four", Difficulty: "Facile",
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	recipes, total, err = store.QueryRecipes(ctx, repository.RecipeQuery{
		Owner: repository.OwnedBy, OwnerID: owner.ID,
		Order: &repository.Order{Field: repository.SortByCreatedAt},
		From:  0, To: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Pesto"}, titles(recipes))
}

func seedMixedTitles(t *testing.T, db *gorm.DB) {
	t.Helper()
	owner := testhelpers.CreateTestUser(t, db)
	for i, title := range []string{"Pesto", "", "Éclair au chocolat", "curry"} {
		testhelpers.CreateTestRecipe(t, db, owner.ID, title, nil, day.Add(time.Duration(i)*time.Hour))
	}
}

func assertMixedTitles(t *testing.T, store *repository.GormStore) {
	t.Helper()
	ctx := context.Background()

	asc, _, err := store.QueryRecipes(ctx, repository.RecipeQuery{
		Order: &repository.Order{Field: repository.SortByTitle}, From: 0, To: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"curry", "Éclair au chocolat", "Pesto", ""}, titles(asc))

	desc, _, err := store.QueryRecipes(ctx, repository.RecipeQuery{
		Order: &repository.Order{Field: repository.SortByTitle, Desc: true}, From: 0, To: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pesto", "Éclair au chocolat", "curry", ""}, titles(desc))

	for _, search := range []string{"éclair", "ÉCLAIR", "Éclair", "CURRY"} {
		_, total, err := store.QueryRecipes(ctx, repository.RecipeQuery{Search: search, From: 0, To: 9})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, "search %q", search)
	}
}

func TestGormStoreCollatedTitles(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	seedMixedTitles(t, db)
	assertMixedTitles(t, repository.NewGormStore(db))
}

func TestGormStoreTitleKeyOrder(t *testing.T) {
	store := repository.NewGormStore(testhelpers.SetupSQLiteDatabase(t))

	assert.Negative(t, bytes.Compare(store.TitleKey("curry"), store.TitleKey("Éclair")))
	assert.Negative(t, bytes.Compare(store.TitleKey("Éclair"), store.TitleKey("Pesto")))
}

func TestGormStoreRefreshTitleColumns(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	seedMixedTitles(t, db)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	// rows written by SQL migrations carry no key
	require.NoError(t, db.Model(&models.Recipe{}).Where("title <> ?", "curry").
		UpdateColumns(map[string]interface{}{"title_key": nil, "title_lower": ""}).Error)

	updated, err := store.RefreshTitleColumns(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assertMixedTitles(t, store)

	updated, err = store.RefreshTitleColumns(ctx, true)
	require.NoError(t, err)
	assert.Zero(t, updated)

	updated, err = store.RefreshTitleColumns(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 4, updated)
}

func TestGormStoreCollatedTitlesPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	seedMixedTitles(t, db)
	assertMixedTitles(t, repository.NewGormStore(db))
}
