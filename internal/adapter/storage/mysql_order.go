package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mk2304/postmart/internal/core/domain"
)

type MySQLOrders struct {
	db *sql.DB
}

func NewMySQLOrders(db *sql.DB) *MySQLOrders {
	return &MySQLOrders{db: db}
}

// CreateOrder commits the order header, every item row and every
// inventory decrement together, or none of them. Lines are processed
// in submission order and reservation is interleaved with item
// insertion, so the first line without stock aborts before any later
// line is reserved; the rollback undoes whatever this call already did.
func (m *MySQLOrders) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, location_id, total_price, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		order.ID, order.CustomerID, order.LocationID, order.TotalPrice, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		if err := reserveStock(ctx, tx, item.ProductID, order.LocationID, item.Quantity); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?)`,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	return nil
}

func (m *MySQLOrders) GetOrder(ctx context.Context, orderID string) (*domain.Order, []domain.OrderItem, error) {
	var order domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, customer_id, location_id, total_price, created_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(&order.ID, &order.CustomerID, &order.LocationID, &order.TotalPrice, &order.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = ?`, orderID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &order, items, nil
}
