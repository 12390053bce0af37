// Package service holds the ordering rules: catalog reads, coupon redemption,
// order lifecycle, feedback, notifications and customer identity. Handlers
// only translate between HTTP and these calls.
package service

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/events"
)

const publishTimeout = 5 * time.Second

// publish is fire-and-forget: the state change is already committed, so a
// broker failure is logged and swallowed.
func publish(ctx context.Context, p events.Publisher, ev events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"event":    ev.Type,
			"order_id": ev.OrderID,
		}).Warn("event publish failed")
	}
}

func validateID(field, id string) error {
	if id == "" {
		return invalid(field, "is required")
	}
	if len(id) > 64 || strings.ContainsAny(id, " \t\r\n/") {
		return invalid(field, "is malformed")
	}
	return nil
}
