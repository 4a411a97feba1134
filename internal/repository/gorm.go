package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements RecipeStore on top of gorm.
type GormStore struct {
	db   *gorm.DB
	caps Capabilities

	// collator is not safe for concurrent use
	mu       sync.Mutex
	collator *collate.Collator
	keyBuf   collate.Buffer
}

// Option configures a GormStore.
type Option func(*GormStore)

// WithServerOrdering toggles whether QueryRecipes honours Order.
func WithServerOrdering(enabled bool) Option {
	return func(s *GormStore) {
		s.caps.ServerOrdering = enabled
	}
}

// WithSortLocale sets the locale whose collation orders titles. It must
// match the locale the service sorts with when ordering locally.
func WithSortLocale(tag language.Tag) Option {
	return func(s *GormStore) {
		s.collator = collate.New(tag)
	}
}

// NewGormStore creates a store. Server-side ordering is enabled by default
// and titles are ordered with the French collation.
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	s := &GormStore{
		db:       db,
		caps:     Capabilities{ServerOrdering: true},
		collator: collate.New(language.French),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormStore) Capabilities() Capabilities {
	return s.caps
}

func (s *GormStore) FindCategory(ctx context.Context, attrs models.CategoryAttributes) (*models.Category, error) {
	var rows []models.Category
	err := s.db.WithContext(ctx).
		Where("diet = ? AND cook_time = ? AND technique = ? AND difficulty = ?",
			attrs.Diet, attrs.CookTime, attrs.Technique, attrs.Difficulty).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *GormStore) InsertCategory(ctx context.Context, category *models.Category) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(category)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TitleKey returns the collation key of title. Keys compare bytewise in the
// same order the collator compares titles, on every SQL dialect.
func (s *GormStore) TitleKey(title string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyBuf.Reset()
	return append([]byte{}, s.collator.KeyFromString(&s.keyBuf, title)...)
}

func (s *GormStore) deriveTitleColumns(recipe *models.Recipe) {
	recipe.TitleKey = s.TitleKey(recipe.Title)
	recipe.TitleLower = strings.ToLower(recipe.Title)
}

func (s *GormStore) InsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	s.deriveTitleColumns(recipe)
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (s *GormStore) FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Joins("Category").
		Where("recipes.id = ?", id).
		Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *GormStore) SaveRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	s.deriveTitleColumns(recipe)
	return s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(map[string]interface{}{
			"title":       recipe.Title,
			"title_key":   recipe.TitleKey,
			"title_lower": recipe.TitleLower,
			"description": recipe.Description,
			"image_url":   recipe.ImageURL,
			"category_id": recipe.CategoryID,
			"updated_at":  recipe.UpdatedAt,
		}).Error
}

func (s *GormStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

func (s *GormStore) QueryRecipes(ctx context.Context, q RecipeQuery) ([]models.Recipe, int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.Recipe{})

	if q.Join == InnerJoin {
		tx = tx.Joins("INNER JOIN categories ON categories.id = recipes.category_id")
	} else {
		tx = tx.Joins("LEFT JOIN categories ON categories.id = recipes.category_id")
	}

	for _, f := range []struct{ column, value string }{
		{"diet", q.Filters.Diet},
		{"cook_time", q.Filters.CookTime},
		{"technique", q.Filters.Technique},
		{"difficulty", q.Filters.Difficulty},
	} {
		if f.value != "" {
			tx = tx.Where(clause.Eq{Column: clause.Column{Table: "categories", Name: f.column}, Value: f.value})
		}
	}

	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where("recipes.title_lower LIKE ? ESCAPE '\\'", pattern)
	}

	switch q.Owner {
	case OwnedBy:
		tx = tx.Where("recipes.owner_id = ?", q.OwnerID)
	case NotOwnedBy:
		tx = tx.Where("recipes.owner_id <> ?", q.OwnerID)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	find := tx.Preload("Category")
	if q.Order != nil && s.caps.ServerOrdering {
		find = applyOrder(find, *q.Order)
	}

	var recipes []models.Recipe
	if err := find.Offset(q.From).Limit(q.To - q.From + 1).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func applyOrder(tx *gorm.DB, o Order) *gorm.DB {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	switch o.Field {
	case SortByTitle:
		// null and empty titles go last in both directions
		tx = tx.Order("CASE WHEN recipes.title IS NULL OR recipes.title = '' THEN 1 ELSE 0 END").
			Order("recipes.title_key " + dir)
	default:
		tx = tx.Order("recipes.created_at " + dir)
	}
	return tx.Order("recipes.id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// RefreshTitleColumns recomputes the derived title columns. With onlyMissing
// it touches rows that have no collation key yet, as left by SQL migrations;
// otherwise every row is rewritten, which is needed after the sort locale
// changes. It returns the number of rows updated.
func (s *GormStore) RefreshTitleColumns(ctx context.Context, onlyMissing bool) (int, error) {
	tx := s.db.WithContext(ctx).Model(&models.Recipe{}).Select("id", "title")
	if onlyMissing {
		tx = tx.Where("title_key IS NULL")
	}

	var rows []models.Recipe
	updated := 0
	err := tx.FindInBatches(&rows, 200, func(batch *gorm.DB, _ int) error {
		for i := range rows {
			s.deriveTitleColumns(&rows[i])
			err := s.db.WithContext(ctx).
				Model(&models.Recipe{}).
				Where("id = ?", rows[i].ID).
				UpdateColumns(map[string]interface{}{
					"title_key":   rows[i].TitleKey,
					"title_lower": rows[i].TitleLower,
				}).Error
			if err != nil {
				return err
			}
			updated++
		}
		return nil
	}).Error
	return updated, err
}
