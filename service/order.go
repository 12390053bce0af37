package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/events"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pricing"
	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/statemachine"
)

// CartLine is one requested menu item. Price and name are never taken from
// the client; they are read from the catalog when the order is placed.
type CartLine struct {
	MenuItemID     string                `json:"menuItemId" validate:"required,max=64"`
	Quantity       int                   `json:"quantity" validate:"min=1,max=50"`
	Customizations models.Customizations `json:"customizations"`
}

type CreateOrderInput struct {
	UserID              string               `json:"-"`
	CustomerName        string               `json:"customerName" validate:"required,max=100"`
	Items               []CartLine           `json:"items" validate:"required,min=1,max=50,dive"`
	CouponNumber        string               `json:"couponNumber" validate:"max=32"`
	SpecialInstructions string               `json:"specialInstructions" validate:"max=500"`
	PaymentMethodHint   models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash upi pending"`
}

// normalize trims free text and makes add-ons a set.
func (in *CreateOrderInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CouponNumber = NormalizeCouponCode(in.CouponNumber)
	in.SpecialInstructions = strings.TrimSpace(in.SpecialInstructions)
	for i := range in.Items {
		c := &in.Items[i].Customizations
		c.SpiceLevel = strings.ToLower(strings.TrimSpace(c.SpiceLevel))
		c.SpecialInstructions = strings.TrimSpace(c.SpecialInstructions)
		c.Addons = dedupeAddons(c.Addons)
	}
}

func dedupeAddons(addons []string) []string {
	if len(addons) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(addons))
	out := make([]string, 0, len(addons))
	for _, a := range addons {
		a = strings.TrimSpace(a)
		// blanks are kept so validation can reject them
		if a != "" && seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// OrderFilter narrows ListOrders. Zero values match everything.
type OrderFilter struct {
	UserID string
	Status models.OrderStatus
}

// OrderSummary aggregates a set of orders for the admin dashboard.
type OrderSummary struct {
	Total    int                        `json:"total"`
	ByStatus map[models.OrderStatus]int `json:"byStatus"`
	Paid     int                        `json:"paid"`
	Revenue  models.Money               `json:"revenue"`
}

// maxBillAttempts bounds checkout retries on a bill number collision.
const maxBillAttempts = 5

type OrderService struct {
	repo      *repository.Repository
	rules     pricing.Rules
	bills     *BillNumberGenerator
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(repo *repository.Repository, rules pricing.Rules, publisher events.Publisher) *OrderService {
	return &OrderService{
		repo:      repo,
		rules:     rules,
		bills:     NewBillNumberGenerator(),
		publisher: publisher,
		now:       time.Now,
	}
}

// Rules exposes the pricing constants in effect.
func (s *OrderService) Rules() pricing.Rules {
	return s.rules
}

// CreateOrder prices the cart from the catalog, redeems the coupon and stores
// the order in one transaction. Any failure leaves no order and an unused
// coupon.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.UserID != "" {
		if _, err := s.repo.GetUser(ctx, in.UserID); err != nil {
			return nil, notFound(err, "user "+in.UserID)
		}
	}

	// Another instance may have issued the same bill number in the same
	// millisecond. The whole transaction is retried with the next number.
	var (
		order *models.Order
		err   error
	)
	for attempt := 1; ; attempt++ {
		order, err = s.placeOrder(ctx, in)
		if !errors.Is(err, repository.ErrDuplicate) || attempt == maxBillAttempts {
			break
		}
		log.WithField("attempt", attempt).Warn("bill number taken, retrying checkout")
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":    order.ID,
		"bill_number": order.BillNumber,
		"coupon":      order.CouponNumber,
		"total":       order.TotalAmount.String(),
	}).Info("order created")
	publish(ctx, s.publisher, events.Event{
		Type:       events.OrderCreated,
		OrderID:    order.ID,
		BillNumber: order.BillNumber,
		Payload: map[string]string{
			"customerName": order.CustomerName,
			"totalAmount":  order.TotalAmount.String(),
		},
		OccurredAt: order.CreatedAt,
	})
	return order, nil
}

// placeOrder runs one checkout attempt in a single transaction.
func (s *OrderService) placeOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	var order *models.Order
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		items, lines, err := s.snapshotItems(ctx, tx, in.Items)
		if err != nil {
			return err
		}
		quote, err := pricing.Compute(lines, s.rules)
		if err != nil {
			return err
		}

		now := s.now()
		id := uuid.NewString()
		if in.CouponNumber != "" {
			// the coupon row is claimed before the order row is written
			if err := redeemCoupon(ctx, tx, in.CouponNumber, id, now); err != nil {
				return err
			}
		}

		order = &models.Order{
			ID:                  id,
			UserID:              in.UserID,
			CustomerName:        in.CustomerName,
			CouponNumber:        in.CouponNumber,
			BillNumber:          s.bills.Next(now),
			Items:               items,
			Subtotal:            quote.Subtotal,
			Tax:                 quote.Tax,
			TotalAmount:         quote.Total,
			PaymentMethod:       models.PaymentMethodPending,
			PaymentStatus:       models.PaymentPending,
			Status:              models.StatusReceived,
			SpecialInstructions: in.SpecialInstructions,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return tx.AppendHistory(ctx, &models.OrderStatusHistory{
			OrderID:   id,
			Axis:      models.AxisStatus,
			ToStatus:  string(models.StatusReceived),
			ChangedBy: "customer",
			Note:      "order placed",
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// snapshotItems copies name and price out of the catalog for every cart line.
func (s *OrderService) snapshotItems(ctx context.Context, tx *repository.Repository, cart []CartLine) ([]models.OrderItem, []pricing.Line, error) {
	ids := make([]string, 0, len(cart))
	for _, l := range cart {
		ids = append(ids, l.MenuItemID)
	}
	catalog, err := tx.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	items := make([]models.OrderItem, 0, len(cart))
	for i, l := range cart {
		mi, ok := catalog[l.MenuItemID]
		if !ok {
			return nil, nil, fmt.Errorf("items[%d]: menu item %q does not exist: %w", i, l.MenuItemID, ErrItemUnavailable)
		}
		if !mi.IsAvailable {
			return nil, nil, fmt.Errorf("items[%d]: %s is not available: %w", i, mi.Name, ErrItemUnavailable)
		}
		items = append(items, models.OrderItem{
			MenuItemID:     mi.ID,
			Name:           mi.Name,
			Price:          mi.Price,
			Quantity:       l.Quantity,
			Customizations: l.Customizations,
		})
	}
	return items, pricing.LinesFromItems(items), nil
}

// Reprice recomputes an order's totals from its stored snapshot.
func (s *OrderService) Reprice(order *models.Order) (pricing.Quote, error) {
	return pricing.Compute(pricing.LinesFromItems(order.Items), s.rules)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order "+id)
	}
	return order, nil
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !statemachine.IsOrderStatus(filter.Status) {
		return nil, invalid("status", "unknown order status %q", filter.Status)
	}
	return s.repo.ListOrders(ctx, repository.OrderFilter{UserID: filter.UserID, Status: filter.Status})
}

func (s *OrderService) History(ctx context.Context, id string) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

// OrderUpdate carries a payment outcome, a status change, or both.
type OrderUpdate struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	PaymentMethod models.PaymentMethod
}

// RecordPayment applies a payment outcome. A failed payment may be retried;
// a completed one is final. An empty method reuses the one already recorded.
func (s *OrderService) RecordPayment(ctx context.Context, id string, method models.PaymentMethod, outcome models.PaymentStatus) (*models.Order, error) {
	return s.UpdateOrder(ctx, id, OrderUpdate{PaymentStatus: outcome, PaymentMethod: method}, statemachine.ActorPayment)
}

// SetStatus advances the fulfillment status one step. Setting the current
// status again is a no-op.
func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus, changedBy string) (*models.Order, error) {
	return s.UpdateOrder(ctx, id, OrderUpdate{Status: status}, changedBy)
}

// UpdateOrder applies the payment outcome first, then the status change, as
// one write. If either step is refused nothing is recorded.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, upd OrderUpdate, changedBy string) (*models.Order, error) {
	if upd.Status == "" && upd.PaymentStatus == "" {
		return nil, invalid("status", "status or paymentStatus is required")
	}
	if upd.PaymentStatus != "" {
		if upd.PaymentMethod != "" && upd.PaymentMethod != models.PaymentMethodCash && upd.PaymentMethod != models.PaymentMethodUPI {
			return nil, invalid("paymentMethod", "must be one of: cash upi")
		}
		if upd.PaymentStatus != models.PaymentCompleted && upd.PaymentStatus != models.PaymentFailed {
			return nil, invalid("paymentStatus", "must be one of: completed failed")
		}
	}
	if upd.Status != "" && !statemachine.IsOrderStatus(upd.Status) {
		return nil, invalid("status", "unknown order status %q", upd.Status)
	}

	order, entries, err := s.applyTransition(ctx, id, func(o *models.Order) (map[string]interface{}, []*models.OrderStatusHistory, error) {
		updates := make(map[string]interface{})
		var entries []*models.OrderStatusHistory
		if upd.PaymentStatus != "" {
			u, h, err := decidePayment(o, upd.PaymentMethod, upd.PaymentStatus)
			if err != nil {
				return nil, nil, err
			}
			mergeUpdates(updates, u)
			entries = append(entries, h)
		}
		if upd.Status != "" && o.Status != upd.Status {
			if err := statemachine.CanTransition(o.Status, upd.Status, statemachine.ActorAdmin); err != nil {
				return nil, nil, err
			}
			updates["status"] = upd.Status
			entries = append(entries, &models.OrderStatusHistory{
				Axis:       models.AxisStatus,
				FromStatus: string(o.Status),
				ToStatus:   string(upd.Status),
				ChangedBy:  changedBy,
			})
		}
		if len(entries) == 0 {
			return nil, nil, nil
		}
		return updates, entries, nil
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, order, entries)
	return order, nil
}

func decidePayment(o *models.Order, method models.PaymentMethod, outcome models.PaymentStatus) (map[string]interface{}, *models.OrderStatusHistory, error) {
	if method == "" {
		if o.PaymentMethod == models.PaymentMethodPending {
			return nil, nil, invalid("paymentMethod", "is required")
		}
		method = o.PaymentMethod
	}
	if err := statemachine.CanTransitionPayment(o.PaymentStatus, outcome); err != nil {
		return nil, nil, err
	}
	updates := map[string]interface{}{
		"payment_method": method,
		"payment_status": outcome,
	}
	return updates, &models.OrderStatusHistory{
		Axis:       models.AxisPayment,
		FromStatus: string(o.PaymentStatus),
		ToStatus:   string(outcome),
		ChangedBy:  statemachine.ActorPayment,
		Note:       "via " + string(method),
	}, nil
}

func mergeUpdates(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}

// ForceStatus moves an order to any status, bypassing the transition table.
// The override and its reason are kept in the history.
func (s *OrderService) ForceStatus(ctx context.Context, id string, status models.OrderStatus, reason, changedBy string) (*models.Order, error) {
	if !statemachine.IsOrderStatus(status) {
		return nil, invalid("status", "unknown order status %q", status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason", "is required for an override")
	}
	if len(reason) > 500 {
		return nil, invalid("reason", "must be at most 500 characters long")
	}
	order, entries, err := s.applyTransition(ctx, id, func(o *models.Order) (map[string]interface{}, []*models.OrderStatusHistory, error) {
		if o.Status == status {
			return nil, nil, nil
		}
		return map[string]interface{}{"status": status}, []*models.OrderStatusHistory{{
			Axis:       models.AxisStatus,
			FromStatus: string(o.Status),
			ToStatus:   string(status),
			ChangedBy:  changedBy,
			Note:       "[ADMIN OVERRIDE] " + reason,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		log.WithFields(log.Fields{
			"order_id": order.ID,
			"from":     entry.FromStatus,
			"to":       entry.ToStatus,
			"by":       changedBy,
		}).Warn("order status overridden")
	}
	s.announce(ctx, order, entries)
	return order, nil
}

type decideFunc func(o *models.Order) (map[string]interface{}, []*models.OrderStatusHistory, error)

// applyTransition reads the order, lets decide pick the updates and writes
// them only if the order is unchanged since the read. A nil update map means
// nothing to do.
func (s *OrderService) applyTransition(ctx context.Context, id string, decide decideFunc) (*models.Order, []*models.OrderStatusHistory, error) {
	if err := validateID("id", id); err != nil {
		return nil, nil, err
	}
	var (
		updated *models.Order
		entries []*models.OrderStatusHistory
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		order, err := tx.GetOrder(ctx, id)
		if err != nil {
			return notFound(err, "order "+id)
		}
		updates, hs, err := decide(order)
		if err != nil {
			return err
		}
		if updates == nil {
			updated = order
			return nil
		}

		now := s.now()
		updates["updated_at"] = now
		if err := tx.UpdateOrderState(ctx, order, updates); err != nil {
			if errors.Is(err, repository.ErrStale) {
				return ErrOrderChanged
			}
			return fmt.Errorf("update order %s: %w", id, err)
		}
		for _, h := range hs {
			h.OrderID = order.ID
			h.CreatedAt = now
			if err := tx.AppendHistory(ctx, h); err != nil {
				return fmt.Errorf("append history: %w", err)
			}
		}
		entries = hs
		updated, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, entries, nil
}

func (s *OrderService) announce(ctx context.Context, order *models.Order, entries []*models.OrderStatusHistory) {
	for _, entry := range entries {
		typ := events.OrderStatusChanged
		if entry.Axis == models.AxisPayment {
			typ = events.OrderPaymentChanged
		}
		log.WithFields(log.Fields{
			"order_id": order.ID,
			"axis":     entry.Axis,
			"from":     entry.FromStatus,
			"to":       entry.ToStatus,
		}).Info("order transitioned")
		publish(ctx, s.publisher, events.Event{
			Type:       typ,
			OrderID:    order.ID,
			BillNumber: order.BillNumber,
			Payload: map[string]string{
				"from":      entry.FromStatus,
				"to":        entry.ToStatus,
				"changedBy": entry.ChangedBy,
			},
			OccurredAt: entry.CreatedAt,
		})
	}
}

// Summarize counts orders per status. Revenue only includes orders whose
// payment completed.
func Summarize(orders []models.Order) OrderSummary {
	sum := OrderSummary{Total: len(orders), ByStatus: make(map[models.OrderStatus]int)}
	for _, o := range orders {
		sum.ByStatus[o.Status]++
		if o.PaymentStatus == models.PaymentCompleted {
			sum.Paid++
			sum.Revenue += o.TotalAmount
		}
	}
	return sum
}
