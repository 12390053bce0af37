package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is carried in access tokens; it is derived from User.IsAdmin.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User has no password: identity is proven with a one-time code sent to the phone.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email,omitempty" gorm:"index"`
	Phone     string    `json:"phone,omitempty" gorm:"index"`
	GoogleID  string    `json:"googleId,omitempty" gorm:"index"`
	IsAdmin   bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) Role() UserRole {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}
