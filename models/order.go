package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus is the kitchen-facing fulfillment state of an order.
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// PaymentStatus evolves independently of OrderStatus.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodUPI     PaymentMethod = "upi"
	PaymentMethodPending PaymentMethod = "pending"
)

type Customizations struct {
	SpiceLevel          string   `json:"spiceLevel,omitempty" validate:"omitempty,oneof=mild medium spicy extra-spicy"`
	Addons              []string `json:"addons,omitempty" validate:"max=10,dive,required,max=50"`
	SpecialInstructions string   `json:"specialInstructions,omitempty" validate:"max=500"`
}

// OrderItem is a snapshot of a menu item taken when the order is placed.
// Later catalog edits never reach it.
type OrderItem struct {
	MenuItemID     string         `json:"menuItemId"`
	Name           string         `json:"name"`
	Price          Money          `json:"price"`
	Quantity       int            `json:"quantity"`
	Customizations Customizations `json:"customizations"`
}

type Order struct {
	ID                  string                         `json:"id" gorm:"primaryKey;size:36"`
	UserID              string                         `json:"userId,omitempty" gorm:"index"`
	CustomerName        string                         `json:"customerName" gorm:"not null"`
	CouponNumber        string                         `json:"couponNumber,omitempty"`
	BillNumber          string                         `json:"billNumber" gorm:"uniqueIndex;not null"`
	Items               datatypes.JSONSlice[OrderItem] `json:"items" gorm:"not null"`
	Subtotal            Money                          `json:"subtotal" gorm:"not null"`
	Tax                 Money                          `json:"tax" gorm:"not null"`
	TotalAmount         Money                          `json:"totalAmount" gorm:"not null"`
	PaymentMethod       PaymentMethod                  `json:"paymentMethod" gorm:"not null;default:'pending'"`
	PaymentStatus       PaymentStatus                  `json:"paymentStatus" gorm:"not null;default:'pending'"`
	Status              OrderStatus                    `json:"status" gorm:"not null;default:'received';index"`
	SpecialInstructions string                         `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time                      `json:"createdAt" gorm:"index"`
	UpdatedAt           time.Time                      `json:"updatedAt"`
}

// Axis names the state machine a history entry belongs to.
type Axis string

const (
	AxisStatus  Axis = "status"
	AxisPayment Axis = "payment"
)

// OrderStatusHistory is the audit trail of every status and payment change.
type OrderStatusHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    string    `json:"orderId" gorm:"not null;index"`
	Axis       Axis      `json:"axis" gorm:"not null"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus" gorm:"not null"`
	ChangedBy  string    `json:"changedBy"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}
