package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// MenuItem is reference data. CategoryID is not a foreign key: deleting a
// category leaves it dangling and readers treat the item as uncategorized.
type MenuItem struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:36"`
	Name        string                      `json:"name" gorm:"not null"`
	Description string                      `json:"description"`
	Price       Money                       `json:"price" gorm:"not null"`
	Image       string                      `json:"image"`
	CategoryID  string                      `json:"categoryId,omitempty" gorm:"index"`
	Ingredients datatypes.JSONSlice[string] `json:"ingredients,omitempty"`
	Recipe      string                      `json:"recipe,omitempty"`
	IsAvailable bool                        `json:"isAvailable" gorm:"not null"`
	Allergens   datatypes.JSONSlice[string] `json:"allergens,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
