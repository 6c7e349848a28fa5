package port

import (
	"context"

	"github.com/nvalverde/boutique/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists the order and its items in one transaction.
	CreateOrder(ctx context.Context, order domain.Order) error

	// GetOrder retrieves an order with its items, nil if not found.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// ListOrdersByUser returns a user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateOrderStatus moves an order to a new status. The caller is
	// responsible for checking the transition is legal.
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
