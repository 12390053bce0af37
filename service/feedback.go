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

type FeedbackInput struct {
	OrderID      string `json:"orderId" validate:"max=64"`
	CustomerName string `json:"customerName" validate:"required,max=100"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment" validate:"max=1000"`
}

// FeedbackService is append-only: feedback is never edited or removed.
type FeedbackService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewFeedbackService(repo *repository.Repository) *FeedbackService {
	return &FeedbackService{repo: repo, now: time.Now}
}

func (s *FeedbackService) Submit(ctx context.Context, in FeedbackInput) (*models.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("rating %d: %w", in.Rating, ErrInvalidRating)
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Comment = strings.TrimSpace(in.Comment)
	in.OrderID = strings.TrimSpace(in.OrderID)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	// The order reference is advisory: feedback for an unknown order is kept.
	if in.OrderID != "" {
		if _, err := s.repo.GetOrder(ctx, in.OrderID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			log.WithField("order_id", in.OrderID).Warn("feedback references unknown order")
		}
	}

	fb := &models.Feedback{
		OrderID:      in.OrderID,
		CustomerName: in.CustomerName,
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	log.WithFields(log.Fields{"feedback_id": fb.ID, "order_id": fb.OrderID, "rating": fb.Rating}).Info("feedback received")
	return fb, nil
}

// List returns feedback newest first, optionally for one order.
func (s *FeedbackService) List(ctx context.Context, orderID string) ([]models.Feedback, error) {
	return s.repo.ListFeedback(ctx, orderID)
}
