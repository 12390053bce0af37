package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification records the intent to notify a customer; delivery happens elsewhere.
type Notification struct {
	ID      string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID string    `json:"orderId,omitempty" gorm:"index"`
	Message string    `json:"message" gorm:"not null"`
	SentAt  time.Time `json:"sentAt" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
