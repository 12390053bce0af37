package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/events"
	"restaurant-ordering-api/pricing"
	"restaurant-ordering-api/repository"
)

// fakeClock advances one second on every reading so creation order is
// observable in timestamps.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	repo          *repository.Repository
	catalog       *CatalogService
	coupons       *CouponService
	orders        *OrderService
	feedback      *FeedbackService
	notifications *NotificationService
	identity      *IdentityService
	otp           *MockOTPProvider
	clock         *fakeClock
}

func newTestEnv(t *testing.T, pub events.Publisher) *testEnv {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { config.CloseDB(db) })
	if err := config.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if pub == nil {
		pub = events.NewLogPublisher(nil)
	}
	repo := repository.New(db)
	clock := newFakeClock()
	otp := NewMockOTPProvider(5 * time.Minute)
	otp.now = clock.Now

	env := &testEnv{
		repo:          repo,
		catalog:       NewCatalogService(repo),
		coupons:       NewCouponService(repo),
		orders:        NewOrderService(repo, pricing.DefaultRules(), pub),
		feedback:      NewFeedbackService(repo),
		notifications: NewNotificationService(repo, pub),
		identity:      NewIdentityService(repo, otp),
		otp:           otp,
		clock:         clock,
	}
	env.catalog.now = clock.Now
	env.coupons.now = clock.Now
	env.orders.now = clock.Now
	env.feedback.now = clock.Now
	env.notifications.now = clock.Now
	return env
}

func wantValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError on %q", err, field)
	}
	if verr.Field != field {
		t.Fatalf("field = %q (%s), want %q", verr.Field, verr.Message, field)
	}
}
