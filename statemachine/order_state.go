package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"restaurant-ordering-api/models"
)

const (
	ActorAdmin   = "admin"
	ActorPayment = "payment"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	Axis  models.Axis `json:"axis"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Actor string      `json:"actor"`
}

// validTransitions is the authoritative state machine definition. Status only
// moves forward one step at a time; anything else goes through the explicit
// admin override.
var validTransitions = []Transition{
	{Axis: models.AxisStatus, From: string(models.StatusReceived), To: string(models.StatusPreparing), Actor: ActorAdmin},
	{Axis: models.AxisStatus, From: string(models.StatusPreparing), To: string(models.StatusReady), Actor: ActorAdmin},
	{Axis: models.AxisStatus, From: string(models.StatusReady), To: string(models.StatusCompleted), Actor: ActorAdmin},

	{Axis: models.AxisPayment, From: string(models.PaymentPending), To: string(models.PaymentCompleted), Actor: ActorPayment},
	{Axis: models.AxisPayment, From: string(models.PaymentPending), To: string(models.PaymentFailed), Actor: ActorPayment},
	// A failed payment is never retried automatically; a new attempt re-enters here.
	{Axis: models.AxisPayment, From: string(models.PaymentFailed), To: string(models.PaymentCompleted), Actor: ActorPayment},
	{Axis: models.AxisPayment, From: string(models.PaymentFailed), To: string(models.PaymentFailed), Actor: ActorPayment},
}

type transitionKey struct {
	Axis  models.Axis
	From  string
	To    string
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.Axis, t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError describes a rejected transition.
type TransitionError struct {
	Axis  models.Axis
	From  string
	To    string
	Actor string
	Valid []string
}

func (e *TransitionError) Error() string {
	valid := "none (terminal state)"
	if len(e.Valid) > 0 {
		valid = strings.Join(e.Valid, ", ")
	}
	return fmt.Sprintf("invalid %s transition: %s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		e.Axis, e.From, e.To, e.Actor, e.From, valid)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func validFrom(axis models.Axis, from string) []string {
	var nexts []string
	seen := map[string]bool{}
	for _, t := range validTransitions {
		if t.Axis == axis && t.From == from && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, s := range validFrom(models.AxisStatus, string(status)) {
		nexts = append(nexts, models.OrderStatus(s))
	}
	return nexts
}

func ValidPaymentTransitionsFrom(status models.PaymentStatus) []models.PaymentStatus {
	var nexts []models.PaymentStatus
	for _, s := range validFrom(models.AxisPayment, string(status)) {
		nexts = append(nexts, models.PaymentStatus(s))
	}
	return nexts
}

func check(axis models.Axis, from, to, actor string) error {
	if transitionMap[transitionKey{axis, from, to, actor}] {
		return nil
	}
	return &TransitionError{Axis: axis, From: from, To: to, Actor: actor, Valid: validFrom(axis, from)}
}

// CanTransition checks if a given actor can move an order's status
func CanTransition(from, to models.OrderStatus, actor string) error {
	return check(models.AxisStatus, string(from), string(to), actor)
}

// CanTransitionPayment checks a payment status change made by the payment flow.
func CanTransitionPayment(from, to models.PaymentStatus) error {
	return check(models.AxisPayment, string(from), string(to), ActorPayment)
}

func IsOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusReceived, models.StatusPreparing, models.StatusReady, models.StatusCompleted:
		return true
	}
	return false
}

func IsPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
		return true
	}
	return false
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
