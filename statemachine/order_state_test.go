package statemachine

import (
	"errors"
	"testing"

	"restaurant-ordering-api/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		actor   string
		wantErr bool
	}{
		{models.StatusReceived, models.StatusPreparing, ActorAdmin, false},
		{models.StatusPreparing, models.StatusReady, ActorAdmin, false},
		{models.StatusReady, models.StatusCompleted, ActorAdmin, false},
		{models.StatusCompleted, models.StatusReceived, ActorAdmin, true},
		{models.StatusReady, models.StatusPreparing, ActorAdmin, true},
		{models.StatusReceived, models.StatusReady, ActorAdmin, true},
		{models.StatusReceived, models.StatusPreparing, ActorPayment, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error %v does not wrap ErrInvalidTransition", err)
			}
		})
	}
}

func TestCanTransitionPayment(t *testing.T) {
	tests := []struct {
		from, to models.PaymentStatus
		wantErr bool
	}{
		{models.PaymentPending, models.PaymentCompleted, false},
		{models.PaymentPending, models.PaymentFailed, false},
		{models.PaymentFailed, models.PaymentCompleted, false},
		{models.PaymentCompleted, models.PaymentFailed, true},
		{models.PaymentCompleted, models.PaymentPending, true},
		{models.PaymentCompleted, models.PaymentCompleted, true},
	}
	for _, tt := range tests {
		err := CanTransitionPayment(tt.from, tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("CanTransitionPayment(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	got := ValidTransitionsFrom(models.StatusReceived)
	if len(got) != 1 || got[0] != models.StatusPreparing {
		t.Errorf("ValidTransitionsFrom(received) = %v", got)
	}
	if got := ValidTransitionsFrom(models.StatusCompleted); len(got) != 0 {
		t.Errorf("completed should be terminal, got %v", got)
	}
	if got := ValidPaymentTransitionsFrom(models.PaymentFailed); len(got) != 2 {
		t.Errorf("ValidPaymentTransitionsFrom(failed) = %v", got)
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := CanTransition(models.StatusCompleted, models.StatusReceived, ActorAdmin)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if len(te.Valid) != 0 {
		t.Errorf("completed has no valid next states, got %v", te.Valid)
	}
}
