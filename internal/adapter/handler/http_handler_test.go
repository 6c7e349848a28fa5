package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/core/service"
)

// In-memory fakes for the three ports behind the services.

type memCatalog struct {
	products map[string]domain.Product
}

func (m *memCatalog) ListProducts(ctx context.Context, category string, activeOnly bool) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
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

func (m *memCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memCatalog) CreateProduct(ctx context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

type memCarts struct {
	carts map[string][]domain.LineItem
}

func (m *memCarts) Save(ctx context.Context, cartID string, items []domain.LineItem) error {
	cp := make([]domain.LineItem, len(items))
	copy(cp, items)
	m.carts[cartID] = cp
	return nil
}

func (m *memCarts) Load(ctx context.Context, cartID string) ([]domain.LineItem, error) {
	return m.carts[cartID], nil
}

func (m *memCarts) Delete(ctx context.Context, cartID string) error {
	delete(m.carts, cartID)
	return nil
}

type memOrders struct {
	orders map[string]domain.Order
}

func (m *memOrders) CreateOrder(ctx context.Context, order domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *memOrders) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memOrders) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	o := m.orders[id]
	o.Status = status
	m.orders[id] = o
	return nil
}

type memIdem struct {
	seen map[string]bool
}

func (m *memIdem) SetIdempotency(ctx context.Context, key string) (bool, error) {
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memCarts) {
	t.Helper()

	catalog := &memCatalog{products: map[string]domain.Product{
		"P1": {
			ID:             "P1",
			Name:           "Linen Shirt",
			Price:          decimal.RequireFromString("25.50"),
			Category:       "shirts",
			AvailableSizes: []string{"S", "M", "L"},
			Active:         true,
		},
	}}
	carts := &memCarts{carts: make(map[string][]domain.LineItem)}
	orders := &memOrders{orders: make(map[string]domain.Order)}
	idem := &memIdem{seen: make(map[string]bool)}

	logger := zap.NewNop()
	orderService := service.NewOrderService(orders, carts, idem, 100, logger)
	t.Cleanup(orderService.Close)

	h := NewHTTPHandler(
		service.NewCatalogService(catalog, logger),
		service.NewCartService(catalog, carts, logger),
		orderService,
	)

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, carts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestAddToCart(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/add",
		`{"cart_id":"c1","product_id":"P1","size":"M","quantity":2}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out struct {
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
		Items     []struct {
			Name     string `json:"name"`
			Subtotal string `json:"subtotal"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "51.00", out.Total)
	assert.Equal(t, 2, out.ItemCount)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Linen Shirt", out.Items[0].Name)
	assert.Equal(t, "51.00", out.Items[0].Subtotal)
}

func TestAddToCart_SizeNotOffered(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/add",
		`{"cart_id":"c1","product_id":"P1","size":"XXL","quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/add",
		`{"cart_id":"c1","product_id":"P404","size":"M","quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddToCart_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/cart/add")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCheckout_FullFlow(t *testing.T) {
	srv, carts := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/add",
		`{"cart_id":"c1","product_id":"P1","size":"M","quantity":2}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	checkoutBody := `{
		"request_id": "req-1",
		"cart_id": "c1",
		"user_id": "u1",
		"payment_method": "cash",
		"customer": {"name":"Ana","email":"ana@example.com","phone":"555-0101","address":"Av. Central 12"}
	}`
	resp = postJSON(t, srv.URL+"/api/checkout", checkoutBody)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "51.00", order.Total)

	// Cart cleared after confirmed success.
	assert.Empty(t, carts.carts["c1"])

	// Replay of the same request id is rejected.
	resp = postJSON(t, srv.URL+"/api/checkout", checkoutBody)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/checkout", `{
		"request_id": "req-9",
		"cart_id": "empty",
		"user_id": "u1",
		"payment_method": "transfer",
		"customer": {"name":"Ana","email":"a@b.c","phone":"1","address":"x"}
	}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/checkout", `{
		"request_id": "req-2",
		"cart_id": "c1",
		"user_id": "u1",
		"payment_method": "crypto",
		"customer": {"name":"Ana","email":"a@b.c","phone":"1","address":"x"}
	}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/add",
		`{"cart_id":"c1","product_id":"P1","size":"M","quantity":1}`)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/checkout", `{
		"request_id": "req-1",
		"cart_id": "c1",
		"user_id": "u1",
		"payment_method": "cash",
		"customer": {"name":"Ana","email":"a@b.c","phone":"1","address":"x"}
	}`)
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/admin/orders/status",
		`{"order_id":"`+order.ID+`","status":"delivered"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/product?id=P404")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
