package repository

import (
	"context"

	"restaurant-ordering-api/models"
)

func (r *Repository) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return r.conn(ctx).Create(fb).Error
}

// ListFeedback returns newest first, optionally restricted to one order.
func (r *Repository) ListFeedback(ctx context.Context, orderID string) ([]models.Feedback, error) {
	query := r.conn(ctx).Order("created_at desc")
	if orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	var feedback []models.Feedback
	err := query.Find(&feedback).Error
	return feedback, err
}
