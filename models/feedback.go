package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID      string    `json:"orderId,omitempty" gorm:"index"`
	CustomerName string    `json:"customerName" gorm:"not null"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
