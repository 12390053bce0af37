package service

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestNormalizeCouponCode(t *testing.T) {
	tests := map[string]string{
		"taste001":    "TASTE001",
		"  Taste042 ": "TASTE042",
		"":            "",
	}
	for in, want := range tests {
		if got := NormalizeCouponCode(in); got != want {
			t.Errorf("NormalizeCouponCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckCoupon(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	check, err := env.coupons.Check(ctx, "taste002")
	if err != nil {
		t.Fatal(err)
	}
	if !check.Valid || check.AlreadyUsed || check.Code != "TASTE002" {
		t.Errorf("check = %+v", check)
	}
	// checking twice must not consume it
	check, _ = env.coupons.Check(ctx, "TASTE002")
	if !check.Valid {
		t.Error("check consumed the coupon")
	}

	if _, err := env.coupons.Check(ctx, "UNKNOWN1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown: err = %v", err)
	}
	_, err = env.coupons.Check(ctx, "   ")
	wantValidation(t, err, "code")
	_, err = env.coupons.Check(ctx, "bad code!")
	wantValidation(t, err, "code")
}

func TestRedeemCouponConcurrently(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	const callers = 2
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := env.coupons.Redeem(ctx, "TASTE003", "order-x")
			if err != nil {
				t.Errorf("redeem: %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
	check, err := env.coupons.Check(ctx, "TASTE003")
	if err != nil {
		t.Fatal(err)
	}
	if !check.AlreadyUsed {
		t.Error("coupon not used after redemption")
	}
	if _, err := env.coupons.Redeem(ctx, "NOPE", "order-y"); !errors.Is(err, ErrCouponInvalid) {
		t.Errorf("unknown coupon: err = %v", err)
	}
}

func TestConcurrencyConflictIsAlreadyUsed(t *testing.T) {
	if !errors.Is(ErrConcurrencyConflict, ErrCouponAlreadyUsed) {
		t.Fatal("ErrConcurrencyConflict must match ErrCouponAlreadyUsed")
	}
}

func TestCreateCoupon(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	c, err := env.coupons.Create(ctx, " spring-24 ")
	if err != nil {
		t.Fatal(err)
	}
	if c.Code != "SPRING-24" || c.IsUsed {
		t.Errorf("coupon = %+v", c)
	}
	_, err = env.coupons.Create(ctx, "spring-24")
	wantValidation(t, err, "code")

	all, err := env.coupons.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 101 {
		t.Errorf("coupons = %d, want 101", len(all))
	}
}
