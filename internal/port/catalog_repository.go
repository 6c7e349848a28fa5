package port

import (
	"context"

	"github.com/nvalverde/boutique/internal/core/domain"
)

type CatalogRepository interface {
	// ListProducts returns catalog entries, newest first. When activeOnly
	// is set, deactivated products are excluded. Category filters when
	// non-empty.
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]domain.Product, error)

	// GetProduct retrieves a product by ID, nil if not found.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// CreateProduct inserts a new catalog entry.
	CreateProduct(ctx context.Context, p domain.Product) error

	// UpdateProduct overwrites an existing entry, matched by ID.
	UpdateProduct(ctx context.Context, p domain.Product) error
}
