package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/port"
)

// Ledger is the authoritative set of line items a shopper intends to
// purchase. Line items are unique per (product, size); adding the same
// variant twice merges quantities instead of creating a second row.
//
// Every mutation is written through to the injected store. A failed
// write never rolls back the in-memory change; the next mutation saves
// the full state again, so a transient store outage self-heals.
type Ledger struct {
	id     string
	items  []domain.LineItem
	store  port.CartStore
	logger *zap.Logger
}

func NewLedger(id string, store port.CartStore, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		id:     id,
		store:  store,
		logger: logger,
	}
}

// Restore loads previously persisted line items. An absent cart key
// leaves the ledger empty.
func (l *Ledger) Restore(ctx context.Context) error {
	items, err := l.store.Load(ctx, l.id)
	if err != nil {
		return err
	}
	l.items = items
	return nil
}

// AddItem appends the candidate, or merges its quantity into an
// existing row for the same (product, size).
func (l *Ledger) AddItem(ctx context.Context, candidate domain.LineItem) {
	for i := range l.items {
		if l.items[i].Matches(candidate.ProductID, candidate.Size) {
			l.items[i].Quantity += candidate.Quantity
			l.persist(ctx)
			return
		}
	}
	l.items = append(l.items, candidate)
	l.persist(ctx)
}

// UpdateQuantity sets the quantity of the matching row, clamping to a
// minimum of 1. Removing a row is always an explicit RemoveItem call.
// No matching row is a no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID, size string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range l.items {
		if l.items[i].Matches(productID, size) {
			l.items[i].Quantity = quantity
			l.persist(ctx)
			return
		}
	}
}

// RemoveItem deletes the matching row. No matching row is a no-op.
func (l *Ledger) RemoveItem(ctx context.Context, productID, size string) {
	for i := range l.items {
		if l.items[i].Matches(productID, size) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// Clear empties the ledger and drops the persisted cart key.
func (l *Ledger) Clear(ctx context.Context) {
	l.items = nil
	if err := l.store.Delete(ctx, l.id); err != nil {
		l.logger.Warn("cart delete failed",
			zap.String("cart_id", l.id),
			zap.Error(err),
		)
	}
}

// Total returns the exact sum of unit price times quantity over all rows.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns the sum of quantities, used for the cart badge.
func (l *Ledger) ItemCount() int {
	count := 0
	for _, item := range l.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []domain.LineItem {
	if len(l.items) == 0 {
		return nil
	}
	snapshot := make([]domain.LineItem, len(l.items))
	copy(snapshot, l.items)
	return snapshot
}

// Empty reports whether the ledger holds no line items.
func (l *Ledger) Empty() bool {
	return len(l.items) == 0
}

func (l *Ledger) persist(ctx context.Context) {
	if err := l.store.Save(ctx, l.id, l.items); err != nil {
		l.logger.Warn("cart save failed",
			zap.String("cart_id", l.id),
			zap.Error(err),
		)
	}
}
