package repository

import (
	"context"
	"errors"

	"restaurant-ordering-api/models"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.conn(ctx).Create(user).Error
}

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByContact matches on phone first, then email.
func (r *Repository) FindUserByContact(ctx context.Context, phone, email string) (*models.User, error) {
	var user models.User
	if phone != "" {
		err := r.conn(ctx).Where("phone = ?", phone).Order("created_at asc").First(&user).Error
		if err == nil {
			return &user, nil
		}
		if err = translate(err); !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if email != "" {
		if err := r.conn(ctx).Where("email = ?", email).Order("created_at asc").First(&user).Error; err != nil {
			return nil, translate(err)
		}
		return &user, nil
	}
	return nil, ErrNotFound
}
