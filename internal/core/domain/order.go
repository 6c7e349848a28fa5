package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// statusTransitions lists the statuses each status may move to.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Customer holds the contact and shipping details captured at checkout.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// OrderItem is a purchased line with name and price frozen at checkout time.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Size      string
	Quantity  int
}

type Order struct {
	ID            string
	UserID        string
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Total         decimal.Decimal
	Customer      Customer
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderEvent describes a status change published to the notification queue.
type OrderEvent struct {
	OrderID    string
	UserID     string
	Status     OrderStatus
	OccurredAt time.Time
}
