package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/events"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/repository"
)

// NotificationService records notifications and hands them to the event
// publisher. It does not check that the order exists and it does not deliver
// anything itself.
type NotificationService struct {
	repo      *repository.Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewNotificationService(repo *repository.Repository, publisher events.Publisher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *NotificationService) Notify(ctx context.Context, orderID, message string) (*models.Notification, error) {
	orderID = strings.TrimSpace(orderID)
	message = strings.TrimSpace(message)
	if len(orderID) > 64 {
		return nil, invalid("orderId", "must be at most 64 characters long")
	}
	if message == "" {
		return nil, invalid("message", "is required")
	}
	if len(message) > 500 {
		return nil, invalid("message", "must be at most 500 characters long")
	}

	n := &models.Notification{OrderID: orderID, Message: message, SentAt: s.now()}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	log.WithFields(log.Fields{"notification_id": n.ID, "order_id": n.OrderID}).Info("notification logged")
	publish(ctx, s.publisher, events.Event{
		Type:       events.NotificationCreated,
		OrderID:    n.OrderID,
		Payload:    map[string]string{"message": n.Message},
		OccurredAt: n.SentAt,
	})
	return n, nil
}

// List returns notifications newest first, optionally for one order.
func (s *NotificationService) List(ctx context.Context, orderID string) ([]models.Notification, error) {
	return s.repo.ListNotifications(ctx, orderID)
}
