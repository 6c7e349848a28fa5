package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nvalverde/boutique/internal/core/cart"
	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/core/service"
)

type HTTPHandler struct {
	catalog *service.CatalogService
	carts   *service.CartService
	orders  *service.OrderService
}

func NewHTTPHandler(catalog *service.CatalogService, carts *service.CartService, orders *service.OrderService) *HTTPHandler {
	return &HTTPHandler{catalog: catalog, carts: carts, orders: orders}
}

// Register wires every route on the given mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/products", h.ListProducts)
	mux.HandleFunc("/api/product", h.GetProduct)
	mux.HandleFunc("/api/cart", h.GetCart)
	mux.HandleFunc("/api/cart/add", h.AddToCart)
	mux.HandleFunc("/api/cart/update", h.UpdateCartItem)
	mux.HandleFunc("/api/cart/remove", h.RemoveCartItem)
	mux.HandleFunc("/api/cart/clear", h.ClearCart)
	mux.HandleFunc("/api/checkout", h.Checkout)
	mux.HandleFunc("/api/orders", h.ListOrders)
	mux.HandleFunc("/api/admin/products", h.CreateProduct)
	mux.HandleFunc("/api/admin/products/update", h.UpdateProduct)
	mux.HandleFunc("/api/admin/products/deactivate", h.DeactivateProduct)
	mux.HandleFunc("/api/admin/orders/status", h.UpdateOrderStatus)
}

type errorResponse struct {
	Error string `json:"error"`
}

type productResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Price          string   `json:"price"`
	Category       string   `json:"category"`
	ImageURL       string   `json:"image_url,omitempty"`
	AvailableSizes []string `json:"available_sizes"`
	Active         bool     `json:"active"`
}

type cartItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	Subtotal  string `json:"subtotal"`
}

type cartResponse struct {
	CartID    string             `json:"cart_id"`
	Items     []cartItemResponse `json:"items"`
	Total     string             `json:"total"`
	ItemCount int                `json:"item_count"`
}

type orderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Total         string              `json:"total"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("category")
	includeInactive := r.URL.Query().Get("all") == "1"

	products, err := h.catalog.ListProducts(r.Context(), category, includeInactive)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cartID := r.URL.Query().Get("cart_id")
	if cartID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing cart_id"})
		return
	}

	ledger, err := h.carts.GetCart(r.Context(), cartID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cartID, ledger))
}

type cartMutationRequest struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.CartID == "" || req.ProductID == "" || req.Size == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}

	ledger, err := h.carts.AddItem(r.Context(), req.CartID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(req.CartID, ledger))
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.CartID == "" || req.ProductID == "" || req.Size == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}

	ledger, err := h.carts.UpdateQuantity(r.Context(), req.CartID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(req.CartID, ledger))
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.CartID == "" || req.ProductID == "" || req.Size == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}

	ledger, err := h.carts.RemoveItem(r.Context(), req.CartID, req.ProductID, req.Size)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(req.CartID, ledger))
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.CartID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing cart_id"})
		return
	}

	if err := h.carts.ClearCart(r.Context(), req.CartID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{CartID: req.CartID, Items: []cartItemResponse{}, Total: "0.00"})
}

type checkoutRequest struct {
	RequestID     string `json:"request_id"`
	CartID        string `json:"cart_id"`
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
	Customer      struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"customer"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.RequestID == "" || req.CartID == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}
	if req.Customer.Name == "" || req.Customer.Email == "" || req.Customer.Phone == "" || req.Customer.Address == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing customer details"})
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if method != domain.PaymentCash && method != domain.PaymentTransfer {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown payment method"})
		return
	}

	order, err := h.orders.Checkout(r.Context(), service.CheckoutInput{
		RequestID:     req.RequestID,
		CartID:        req.CartID,
		UserID:        req.UserID,
		PaymentMethod: method,
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing user_id"})
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

type productRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          string   `json:"price"`
	Category       string   `json:"category"`
	ImageURL       string   `json:"image_url"`
	AvailableSizes []string `json:"available_sizes"`
	Active         bool     `json:"active"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.Name == "" || req.Category == "" || len(req.AvailableSizes) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid price"})
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), domain.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          price,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		AvailableSizes: req.AvailableSizes,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*p))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.ID == "" || req.Name == "" || req.Category == "" || len(req.AvailableSizes) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid price"})
		return
	}

	err = h.catalog.UpdateProduct(r.Context(), domain.Product{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          price,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		AvailableSizes: req.AvailableSizes,
		Active:         req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *HTTPHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
		return
	}

	if err := h.catalog.DeactivateProduct(r.Context(), req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type statusUpdateRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.OrderID == "" || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), req.OrderID, domain.OrderStatus(req.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		status = http.StatusNotFound
		message = "product not found"
	case errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
		message = "order not found"
	case errors.Is(err, service.ErrSizeNotOffered):
		status = http.StatusBadRequest
		message = "size not offered"
	case errors.Is(err, service.ErrDuplicateRequest):
		status = http.StatusConflict
		message = "duplicate request"
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusBadRequest
		message = "cart is empty"
	case errors.Is(err, service.ErrInvalidStatus):
		status = http.StatusBadRequest
		message = "unknown order status"
	case errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
		message = "status transition not allowed"
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		Category:       p.Category,
		ImageURL:       p.ImageURL,
		AvailableSizes: p.AvailableSizes,
		Active:         p.Active,
	}
}

func toCartResponse(cartID string, ledger *cart.Ledger) cartResponse {
	items := ledger.Items()
	out := make([]cartItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, cartItemResponse{
			ProductID: li.ProductID,
			Name:      li.DisplayName,
			UnitPrice: li.UnitPrice.StringFixed(2),
			Size:      li.Size,
			Quantity:  li.Quantity,
			ImageURL:  li.ImageURL,
			Subtotal:  li.Subtotal().StringFixed(2),
		})
	}
	return cartResponse{
		CartID:    cartID,
		Items:     out,
		Total:     ledger.Total().StringFixed(2),
		ItemCount: ledger.ItemCount(),
	}
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}
	return orderResponse{
		ID:            o.ID,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total.StringFixed(2),
		Items:         items,
		CreatedAt:     o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
