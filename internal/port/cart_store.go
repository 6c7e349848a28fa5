package port

import (
	"context"

	"github.com/nvalverde/boutique/internal/core/domain"
)

type CartStore interface {
	// Save persists the full line-item list under the cart key,
	// replacing whatever was stored before.
	Save(ctx context.Context, cartID string, items []domain.LineItem) error

	// Load returns the stored line items, or nil if the cart key is absent.
	Load(ctx context.Context, cartID string) ([]domain.LineItem, error)

	// Delete removes the cart key entirely.
	Delete(ctx context.Context, cartID string) error
}

type IdempotencyStore interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
