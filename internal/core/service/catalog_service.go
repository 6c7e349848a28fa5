package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/port"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogService struct {
	repo   port.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo port.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, includeInactive bool) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, category, !includeInactive)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = uuid.NewString()
	p.Active = true
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
	)
	return &p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) error {
	existing, err := s.repo.GetProduct(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if existing == nil {
		return ErrProductNotFound
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	s.logger.Info("product updated", zap.String("product_id", p.ID))
	return nil
}

// DeactivateProduct hides a product from the storefront without
// deleting it, so past orders keep resolving its id.
func (s *CatalogService) DeactivateProduct(ctx context.Context, id string) error {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if existing == nil {
		return ErrProductNotFound
	}

	existing.Active = false
	existing.UpdatedAt = time.Now()
	if err := s.repo.UpdateProduct(ctx, *existing); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}

	s.logger.Info("product deactivated", zap.String("product_id", id))
	return nil
}
