package service

import (
	"context"
	"sync"

	"github.com/nvalverde/boutique/internal/core/domain"
)

// Fake CartStore
type fakeCartStore struct {
	carts map[string][]domain.LineItem
	mu    sync.Mutex
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string][]domain.LineItem)}
}

func (f *fakeCartStore) Save(ctx context.Context, cartID string, items []domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]domain.LineItem, len(items))
	copy(cp, items)
	f.carts[cartID] = cp
	return nil
}

func (f *fakeCartStore) Load(ctx context.Context, cartID string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.carts[cartID], nil
}

func (f *fakeCartStore) Delete(ctx context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, cartID)
	return nil
}

// Fake OrderRepository
type fakeOrderRepo struct {
	orders    map[string]domain.Order
	created   []domain.Order
	createErr error
	mu        sync.Mutex
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]domain.Order)}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[order.ID] = order
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (f *fakeOrderRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil
	}
	order.Status = status
	f.orders[id] = order
	return nil
}

// Fake IdempotencyStore
type fakeIdem struct {
	seen map[string]bool
	mu   sync.Mutex
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{seen: make(map[string]bool)}
}

func (f *fakeIdem) SetIdempotency(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

// Fake CatalogRepository
type fakeCatalogRepo struct {
	products map[string]domain.Product
	mu       sync.Mutex
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{products: make(map[string]domain.Product)}
}

func (f *fakeCatalogRepo) ListProducts(ctx context.Context, category string, activeOnly bool) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if activeOnly && !p.Active {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalogRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeCatalogRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}
