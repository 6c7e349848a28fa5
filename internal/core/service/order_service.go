package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/core/cart"
	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/port"
)

var (
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// CheckoutInput carries everything the checkout flow needs besides the
// cart contents themselves.
type CheckoutInput struct {
	RequestID     string
	CartID        string
	UserID        string
	Customer      domain.Customer
	PaymentMethod domain.PaymentMethod
}

type OrderService struct {
	orders port.OrderRepository
	carts  port.CartStore
	idem   port.IdempotencyStore
	events chan domain.OrderEvent
	logger *zap.Logger
}

func NewOrderService(orders port.OrderRepository, carts port.CartStore, idem port.IdempotencyStore, queueSize int, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		carts:  carts,
		idem:   idem,
		events: make(chan domain.OrderEvent, queueSize),
		logger: logger,
	}
}

// Checkout turns the cart into a persisted order. The cart is cleared
// only after the order write commits; any failure before that leaves
// the cart intact for retry.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	ledger := cart.NewLedger(in.CartID, s.carts, s.logger)
	if err := ledger.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	if ledger.Empty() {
		return nil, ErrEmptyCart
	}

	// Claim the request id only once there is something to submit, so a
	// rejected empty-cart attempt does not burn it.
	idempotencyKey := fmt.Sprintf("checkout:%s", in.RequestID)

	ok, err := s.idem.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	snapshot := ledger.Items()
	items := make([]domain.OrderItem, 0, len(snapshot))
	for _, li := range snapshot {
		items = append(items, domain.OrderItem{
			ProductID: li.ProductID,
			Name:      li.DisplayName,
			UnitPrice: li.UnitPrice,
			Size:      li.Size,
			Quantity:  li.Quantity,
		})
	}

	now := time.Now()
	order := domain.Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		Total:         ledger.Total(),
		Customer:      in.Customer,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	ledger.Clear(ctx)

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total", order.Total.StringFixed(2)),
	)
	s.publish(domain.OrderEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		OccurredAt: now,
	})

	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along pending -> confirmed -> shipped ->
// delivered, with cancellation allowed until shipping.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)
	s.publish(domain.OrderEvent{
		OrderID:    orderID,
		UserID:     order.UserID,
		Status:     status,
		OccurredAt: time.Now(),
	})
	return nil
}

// Events exposes the status-change queue drained by notifier workers.
func (s *OrderService) Events() <-chan domain.OrderEvent {
	return s.events
}

func (s *OrderService) Close() {
	close(s.events)
}

func (s *OrderService) publish(ev domain.OrderEvent) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event queue full, dropping event",
			zap.String("order_id", ev.OrderID),
		)
	}
}
