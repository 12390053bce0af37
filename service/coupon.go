package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/repository"
)

// CouponCheck is the read-only view of a coupon's redeemability.
type CouponCheck struct {
	Code        string `json:"code"`
	Valid       bool   `json:"valid"`
	AlreadyUsed bool   `json:"alreadyUsed"`
}

type CouponService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCouponService(repo *repository.Repository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// NormalizeCouponCode makes lookups case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCouponCode(code string) error {
	if code == "" {
		return invalid("code", "is required")
	}
	if len(code) > 32 {
		return invalid("code", "must be at most 32 characters long")
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return invalid("code", "may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// Check never mutates the coupon. Unknown codes yield ErrNotFound.
func (s *CouponService) Check(ctx context.Context, code string) (CouponCheck, error) {
	return checkCoupon(ctx, s.repo, NormalizeCouponCode(code))
}

func checkCoupon(ctx context.Context, repo *repository.Repository, code string) (CouponCheck, error) {
	if err := validateCouponCode(code); err != nil {
		return CouponCheck{}, err
	}
	coupon, err := repo.GetCouponByCode(ctx, code)
	if err != nil {
		return CouponCheck{}, notFound(err, "coupon "+code)
	}
	return CouponCheck{Code: coupon.Code, Valid: !coupon.IsUsed, AlreadyUsed: coupon.IsUsed}, nil
}

// Redeem marks the coupon used on behalf of orderID. It reports false, with no
// error, when the coupon was already used.
func (s *CouponService) Redeem(ctx context.Context, code, orderID string) (bool, error) {
	err := redeemCoupon(ctx, s.repo, NormalizeCouponCode(code), orderID, s.now())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrCouponAlreadyUsed):
		return false, nil
	default:
		return false, err
	}
}

// redeemCoupon checks and then consumes code. The consume step is a single
// conditional update, so of two racing callers exactly one succeeds and the
// other gets ErrConcurrencyConflict.
func redeemCoupon(ctx context.Context, repo *repository.Repository, code, orderID string, at time.Time) error {
	check, err := checkCoupon(ctx, repo, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("coupon %s: %w", code, ErrCouponInvalid)
		}
		return err
	}
	if check.AlreadyUsed {
		return fmt.Errorf("coupon %s: %w", code, ErrCouponAlreadyUsed)
	}
	ok, err := repo.MarkCouponUsed(ctx, code, orderID, at)
	if err != nil {
		return fmt.Errorf("redeem coupon %s: %w", code, err)
	}
	if !ok {
		return fmt.Errorf("coupon %s: %w", code, ErrConcurrencyConflict)
	}
	log.WithFields(log.Fields{"coupon": code, "order_id": orderID}).Info("coupon redeemed")
	return nil
}

func (s *CouponService) Create(ctx context.Context, code string) (*models.Coupon, error) {
	code = NormalizeCouponCode(code)
	if err := validateCouponCode(code); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCouponByCode(ctx, code); err == nil {
		return nil, invalid("code", "coupon %s already exists", code)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	coupon := &models.Coupon{Code: code, CreatedAt: s.now()}
	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("code", "coupon %s already exists", code)
		}
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.ListCoupons(ctx)
}
