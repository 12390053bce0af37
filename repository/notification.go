package repository

import (
	"context"

	"restaurant-ordering-api/models"
)

func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.conn(ctx).Create(n).Error
}

func (r *Repository) ListNotifications(ctx context.Context, orderID string) ([]models.Notification, error) {
	query := r.conn(ctx).Order("sent_at desc")
	if orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	var notifications []models.Notification
	err := query.Find(&notifications).Error
	return notifications, err
}
