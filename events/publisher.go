// Package events fans order lifecycle changes out to a message broker.
// Delivery is best effort: callers log publish failures and move on.
package events

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

import (
	"context"
	"time"
)

type Type string

const (
	OrderCreated        Type = "order.created"
	OrderStatusChanged  Type = "order.status_changed"
	OrderPaymentChanged Type = "order.payment_recorded"
	NotificationCreated Type = "notification.created"
)

type Event struct {
	Type       Type              `json:"type"`
	OrderID    string            `json:"orderId,omitempty"`
	BillNumber string            `json:"billNumber,omitempty"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
