package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Known category attribute values, as offered by the recipe forms.
var (
	Diets        = []string{"Végétarien", "Vegan", "Sans gluten"}
	CookTimes    = []string{"Rapide", "Moins de 30 min", "Plus d'1h"}
	Techniques   = []string{"Four", "Poêle", "Vapeur", "Sans cuisson"}
	Difficulties = []string{"Facile", "Intermédiaire", "Difficile"}
)

// Category classifies a recipe. The four attributes together form a natural
// key; at most one row exists per distinct tuple.
type Category struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"-"`
	Diet       string    `gorm:"size:64;not null;uniqueIndex:idx_categories_attributes,priority:1" json:"diet"`
	CookTime   string    `gorm:"size:64;not null;uniqueIndex:idx_categories_attributes,priority:2" json:"cook_time"`
	Technique  string    `gorm:"size:64;not null;uniqueIndex:idx_categories_attributes,priority:3" json:"technique"`
	Difficulty string    `gorm:"size:64;not null;uniqueIndex:idx_categories_attributes,priority:4" json:"difficulty"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns an id when the caller did not set one.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Attributes returns the natural key of the category.
func (c *Category) Attributes() CategoryAttributes {
	return CategoryAttributes{
		Diet:       c.Diet,
		CookTime:   c.CookTime,
		Technique:  c.Technique,
		Difficulty: c.Difficulty,
	}
}

// CategoryAttributes is the four-attribute tuple a category is looked up by.
type CategoryAttributes struct {
	Diet       string `json:"diet"`
	CookTime   string `json:"cook_time"`
	Technique  string `json:"technique"`
	Difficulty string `json:"difficulty"`
}

// CategoryOptions lists the selectable values for each attribute.
type CategoryOptions struct {
	Diet       []string `json:"diet"`
	CookTime   []string `json:"cook_time"`
	Technique  []string `json:"technique"`
	Difficulty []string `json:"difficulty"`
}

// KnownCategoryOptions returns a copy of the known attribute values.
func KnownCategoryOptions() CategoryOptions {
	return CategoryOptions{
		Diet:       append([]string(nil), Diets...),
		CookTime:   append([]string(nil), CookTimes...),
		Technique:  append([]string(nil), Techniques...),
		Difficulty: append([]string(nil), Difficulties...),
	}
}

// ValidateCategoryAttributes reports the first attribute whose value is not
// one of the known options. An empty value is reported as well.
func ValidateCategoryAttributes(a CategoryAttributes) (field string, ok bool) {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"diet", a.Diet, Diets},
		{"cook_time", a.CookTime, CookTimes},
		{"technique", a.Technique, Techniques},
		{"difficulty", a.Difficulty, Difficulties},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return c.field, false
		}
	}
	return "", true
}

// IsKnownValue reports whether value is one of the known options for field.
func IsKnownValue(field, value string) bool {
	switch field {
	case "diet":
		return contains(Diets, value)
	case "cook_time":
		return contains(CookTimes, value)
	case "technique":
		return contains(Techniques, value)
	case "difficulty":
		return contains(Difficulties, value)
	}
	return false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
