package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/core/cart"
	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/port"
)

var ErrSizeNotOffered = errors.New("size not offered for product")

// CartService mediates between the HTTP layer and per-cart ledgers.
// Each call restores the ledger for the given cart key, applies one
// mutation, and lets the ledger write itself back. Concurrent requests
// for the same cart key resolve last-writer-wins at the store.
type CartService struct {
	catalog port.CatalogRepository
	carts   port.CartStore
	logger  *zap.Logger
}

func NewCartService(catalog port.CatalogRepository, carts port.CartStore, logger *zap.Logger) *CartService {
	return &CartService{catalog: catalog, carts: carts, logger: logger}
}

// AddItem snapshots the product's name, price and image into a line
// item and merges it into the cart. The catalog is consulted only
// here; later reads of the cart never re-fetch the product.
func (s *CartService) AddItem(ctx context.Context, cartID, productID, size string, quantity int) (*cart.Ledger, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if p == nil || !p.Active {
		return nil, ErrProductNotFound
	}
	if !p.HasSize(size) {
		return nil, ErrSizeNotOffered
	}

	ledger, err := s.ledger(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ledger.AddItem(ctx, domain.LineItem{
		ProductID:   p.ID,
		DisplayName: p.Name,
		UnitPrice:   p.Price,
		Size:        size,
		Quantity:    quantity,
		ImageURL:    p.ImageURL,
	})
	return ledger, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID, size string, quantity int) (*cart.Ledger, error) {
	ledger, err := s.ledger(ctx, cartID)
	if err != nil {
		return nil, err
	}
	ledger.UpdateQuantity(ctx, productID, size, quantity)
	return ledger, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID, size string) (*cart.Ledger, error) {
	ledger, err := s.ledger(ctx, cartID)
	if err != nil {
		return nil, err
	}
	ledger.RemoveItem(ctx, productID, size)
	return ledger, nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	ledger, err := s.ledger(ctx, cartID)
	if err != nil {
		return err
	}
	ledger.Clear(ctx)
	return nil
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*cart.Ledger, error) {
	return s.ledger(ctx, cartID)
}

func (s *CartService) ledger(ctx context.Context, cartID string) (*cart.Ledger, error) {
	ledger := cart.NewLedger(cartID, s.carts, s.logger)
	if err := ledger.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	return ledger, nil
}
