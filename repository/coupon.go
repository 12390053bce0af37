package repository

import (
	"context"
	"time"

	"restaurant-ordering-api/models"
)

func (r *Repository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.conn(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *Repository) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.conn(ctx).Order("code asc").Find(&coupons).Error
	return coupons, err
}

func (r *Repository) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	return translate(r.conn(ctx).Create(coupon).Error)
}

// MarkCouponUsed flips is_used with a single conditional UPDATE. Exactly one of
// any number of concurrent callers sees true.
func (r *Repository) MarkCouponUsed(ctx context.Context, code, orderID string, at time.Time) (bool, error) {
	res := r.conn(ctx).Model(&models.Coupon{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used":  true,
			"order_id": orderID,
			"used_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
