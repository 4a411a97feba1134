package integration

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/pageza/recettes/backend/config"
	"github.com/pageza/recettes/backend/internal/database"
	"github.com/pageza/recettes/backend/internal/server"
	"github.com/pageza/recettes/backend/internal/testhelpers"
	"github.com/pageza/recettes/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupStack runs the SQL migrations against a fresh PostgreSQL container and
// returns a server backed by it and by a Redis container.
func setupStack(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := testhelpers.StartPostgres(t)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	_, err = database.RunMigrations(sqlDB, "../../migrations", zap.NewNop())
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:         config.Test,
		CORSOrigins:         []string{"http://localhost:5173"},
		JWTSecret:           "integration-secret-with-enough-length",
		JWTTTL:              time.Hour,
		StoreServerOrdering: true,
		SortLocale:          "fr",
		DefaultPageSize:     6,
		MaxPageSize:         50,
		RateLimit:           rateLimit,
		RateLimitWindow:     time.Minute,
	}
	redisClient := testhelpers.SetupTestRedis(t)
	return server.New(cfg, server.Deps{DB: db, Redis: redisClient}, zap.NewNop()).Handler()
}

func register(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	w := testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Email:    email,
		Password: testhelpers.TestPassword,
		Username: "chef",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func recipe(title, technique string) map[string]string {
	return map[string]string{
		"title":      title,
		"diet":       "Végétarien",
		"cook_time":  "Moins de 30 min",
		"technique":  technique,
		"difficulty": "Facile",
	}
}

func TestRecipeCatalogueOnPostgres(t *testing.T) {
	h := setupStack(t, 10)
	chef := register(t, h, "chef@example.com")
	guest := register(t, h, "guest@example.com")

	for _, r := range []map[string]string{
		recipe("Tarte Tatin", "Four"),
		recipe("Omelette", "Poêle"),
		recipe("éclairs", "Four"),
		recipe("Zucchini farcies", "Four"),
	} {
		w := testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/recipes", chef, r)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/recipes", guest, recipe("Tartine", "Sans cuisson"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = testhelpers.PerformRequest(t, h, http.MethodGet, "/api/v1/recipes?search=TART&sort=alpha-asc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.ListRecipesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Recipes, 2)
	assert.Equal(t, "Tarte Tatin", page.Recipes[0].Title)
	assert.Equal(t, "Tartine", page.Recipes[1].Title)

	w = testhelpers.PerformRequest(t, h, http.MethodGet, "/api/v1/recipes?technique=Four&owner=mine&page_size=2&page=2&sort=date-asc", chef, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = types.ListRecipesResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Zucchini farcies", page.Recipes[0].Title)

	// one category row per distinct technique
	w = testhelpers.PerformRequest(t, h, http.MethodGet, "/api/v1/recipes?page_size=50", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = types.ListRecipesResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	seen := map[string]bool{}
	for _, r := range page.Recipes {
		require.NotNil(t, r.CategoryID)
		seen[r.CategoryID.String()] = true
	}
	assert.Len(t, seen, 3)
}

func TestRevocationAndRateLimitWithRedis(t *testing.T) {
	h := setupStack(t, 2)
	token := register(t, h, "chef@example.com")

	// creates, updates and deletes share one window
	w := testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/recipes", token, recipe("Soupe", "Vapeur"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = testhelpers.PerformRequest(t, h, http.MethodPatch, "/api/v1/recipes/"+created.ID, token, map[string]string{"title": "Soupe froide"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testhelpers.PerformRequest(t, h, http.MethodDelete, "/api/v1/recipes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/recipes", token, recipe("Soupe", "Vapeur"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = testhelpers.PerformRequest(t, h, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testhelpers.PerformRequest(t, h, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
