package repository

import (
	"context"

	"restaurant-ordering-api/models"
)

type OrderFilter struct {
	UserID string
	Status models.OrderStatus
}

// CreateOrder returns ErrDuplicate when the bill number is already taken.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.conn(ctx).Create(order).Error)
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.conn(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// ListOrders returns newest first. Bill numbers are monotonic, so they break
// ties between orders created in the same instant.
func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.conn(ctx).Order("created_at desc").Order("bill_number desc")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

// UpdateOrderState applies updates only if the order is still in the state it
// was read in. ErrStale signals a lost race.
func (r *Repository) UpdateOrderState(ctx context.Context, current *models.Order, updates map[string]interface{}) error {
	res := r.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_status = ?", current.ID, current.Status, current.PaymentStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *Repository) ListHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := r.conn(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&history).Error
	return history, err
}
