package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nvalverde/boutique/internal/core/domain"
)

var ErrNotFound = errors.New("row not found")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, category string, activeOnly bool) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, category, image_url, available_sizes, is_active, created_at, updated_at
		FROM products`
	var args []any
	var where []string

	if activeOnly {
		where = append(where, "is_active = 1")
	}
	if category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, image_url, available_sizes, is_active, created_at, updated_at
		FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) error {
	sizes, err := json.Marshal(p.AvailableSizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, category, image_url, available_sizes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, sizes, p.Active,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateProduct(ctx context.Context, p domain.Product) error {
	sizes, err := json.Marshal(p.AvailableSizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, category = ?, image_url = ?, available_sizes = ?, is_active = ?, updated_at = NOW()
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, sizes, p.Active, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, status, payment_method, total, customer_name, customer_email, customer_phone, customer_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, order.PaymentMethod, order.Total,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, size, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Name, item.UnitPrice, item.Size, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, payment_method, total, customer_name, customer_email, customer_phone, customer_address, created_at, updated_at
		FROM orders WHERE id = ?`, id,
	).Scan(&order.ID, &order.UserID, &order.Status, &order.PaymentMethod, &order.Total,
		&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone, &order.Customer.Address,
		&order.CreatedAt, &order.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	order.Items, err = m.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MySQLAdapter) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, status, payment_method, total, customer_name, customer_email, customer_phone, customer_address, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.PaymentMethod, &order.Total,
			&order.Customer.Name, &order.Customer.Email, &order.Customer.Phone, &order.Customer.Address,
			&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = m.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MySQLAdapter) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, product_name, product_price, size, quantity
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Size, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var sizes []byte
	var description, imageURL sql.NullString

	err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Category,
		&imageURL, &sizes, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan product: %w", err)
	}
	p.Description = description.String
	p.ImageURL = imageURL.String

	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &p.AvailableSizes); err != nil {
			return p, fmt.Errorf("unmarshal sizes: %w", err)
		}
	}
	return p, nil
}
