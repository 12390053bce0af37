package service

import (
	"context"
	"errors"
	"testing"
)

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		rating int
		ok     bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}
	for _, tt := range tests {
		_, err := env.feedback.Submit(ctx, FeedbackInput{CustomerName: "Ada", Rating: tt.rating})
		if tt.ok && err != nil {
			t.Errorf("rating %d: %v", tt.rating, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", tt.rating, err)
		}
	}

	all, err := env.feedback.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("feedback = %d, want 3", len(all))
	}
	if all[0].Rating != 5 || all[2].Rating != 1 {
		t.Errorf("not newest first: %d..%d", all[0].Rating, all[2].Rating)
	}
}

func TestSubmitFeedbackForOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{CustomerName: "Ada", Items: margheritaCart(1)})
	if err != nil {
		t.Fatal(err)
	}

	fb, err := env.feedback.Submit(ctx, FeedbackInput{OrderID: order.ID, CustomerName: " Ada ", Rating: 4, Comment: "Crispy"})
	if err != nil {
		t.Fatal(err)
	}
	if fb.CustomerName != "Ada" || fb.OrderID != order.ID {
		t.Errorf("feedback = %+v", fb)
	}

	ghost, err := env.feedback.Submit(ctx, FeedbackInput{OrderID: "ghost", CustomerName: "Ada", Rating: 4})
	if err != nil {
		t.Fatalf("feedback for an unknown order is kept: %v", err)
	}
	if ghost.OrderID != "ghost" {
		t.Errorf("order id = %q", ghost.OrderID)
	}
	_, err = env.feedback.Submit(ctx, FeedbackInput{Rating: 4})
	wantValidation(t, err, "customerName")

	mine, _ := env.feedback.List(ctx, order.ID)
	if len(mine) != 1 {
		t.Errorf("order feedback = %d, want 1", len(mine))
	}
	orphans, _ := env.feedback.List(ctx, "ghost")
	if len(orphans) != 1 {
		t.Errorf("feedback for unknown order = %d, want 1", len(orphans))
	}
}

func TestNotify(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	n, err := env.notifications.Notify(ctx, "unchecked-order", "Your order is ready")
	if err != nil {
		t.Fatalf("unknown order ids are accepted: %v", err)
	}
	if n.ID == "" || n.SentAt.IsZero() {
		t.Errorf("notification = %+v", n)
	}
	if _, err := env.notifications.Notify(ctx, "unchecked-order", "Second call"); err != nil {
		t.Fatal(err)
	}
	_, err = env.notifications.Notify(ctx, "x", "   ")
	wantValidation(t, err, "message")

	got, err := env.notifications.List(ctx, "unchecked-order")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Message != "Second call" {
		t.Errorf("notifications = %+v", got)
	}
}
