package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a user-authored recipe. Category is populated when the row is
// fetched together with its category.
type Recipe struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	OwnerID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CategoryID  *uuid.UUID `gorm:"type:varchar(36);index" json:"category_id"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	ImageURL    *string    `gorm:"size:1024" json:"image_url"`
	Description *string    `gorm:"type:text" json:"description"`

	// Derived from Title by the store on every write. TitleKey is the
	// collation key for the configured sort locale, TitleLower the
	// Unicode lower-cased title used by search.
	TitleKey   []byte `gorm:"index" json:"-"`
	TitleLower string `gorm:"size:255;not null;default:''" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an id when the caller did not set one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OptionalString distinguishes a JSON field that is absent (Set == false)
// from one that is explicitly null (Set == true, Value == nil).
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only invoked for fields present in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Some returns a set OptionalString holding s.
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null returns a set OptionalString holding null.
func Null() OptionalString {
	return OptionalString{Set: true}
}
