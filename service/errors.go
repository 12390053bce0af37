package service

import (
	"errors"
	"fmt"

	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/statemachine"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrItemUnavailable   = errors.New("menu item unavailable")
	ErrCouponInvalid     = errors.New("coupon invalid")
	ErrCouponAlreadyUsed = errors.New("coupon already used")
	// ErrConcurrencyConflict is returned to the loser of a coupon redemption
	// race. It matches ErrCouponAlreadyUsed under errors.Is.
	ErrConcurrencyConflict = fmt.Errorf("%w: lost redemption race", ErrCouponAlreadyUsed)
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidTransition   = statemachine.ErrInvalidTransition
	ErrUnauthorized        = errors.New("unauthorized")
	// ErrOrderChanged means the order moved while a transition was applied.
	ErrOrderChanged = errors.New("order changed concurrently, retry")
)

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// notFound maps the store's not-found onto the service error, keeping what
// was looked up in the message.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
