package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mk2304/postmart/internal/core/domain"
)

// execer is satisfied by both *sql.DB and *sql.Tx, so ledger
// statements run standalone or inside the checkout transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type MySQLInventory struct {
	db *sql.DB
}

func NewMySQLInventory(db *sql.DB) *MySQLInventory {
	return &MySQLInventory{db: db}
}

// reserveStock is the atomicity witness for the whole system: the
// check and the decrement are one statement, and the database's
// row lock serializes concurrent reservations on the same
// (product, location) pair. Rows affected 1 means reserved, 0 means
// insufficient stock and nothing was changed.
func reserveStock(ctx context.Context, ex execer, productID, locationID string, quantity int) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE product_inventory
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE product_id = ? AND location_id = ? AND quantity >= ?`,
		quantity, productID, locationID, quantity,
	)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &domain.InsufficientStockError{ProductID: productID}
	}

	return nil
}

func stockIn(ctx context.Context, ex execer, productID, locationID string, quantity int) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO product_inventory (product_id, location_id, quantity, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), updated_at = NOW()`,
		productID, locationID, quantity,
	)
	if err != nil {
		return fmt.Errorf("stock in: %w", err)
	}
	return nil
}

func (m *MySQLInventory) Reserve(ctx context.Context, productID, locationID string, quantity int) error {
	return reserveStock(ctx, m.db, productID, locationID, quantity)
}

func (m *MySQLInventory) Release(ctx context.Context, productID, locationID string, quantity int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE product_inventory
		SET quantity = quantity + ?, updated_at = NOW()
		WHERE product_id = ? AND location_id = ?`,
		quantity, productID, locationID,
	)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (m *MySQLInventory) GetAvailable(ctx context.Context, productID, locationID string) (int, error) {
	var quantity int
	err := m.db.QueryRowContext(ctx, `
		SELECT quantity FROM product_inventory
		WHERE product_id = ? AND location_id = ?`,
		productID, locationID,
	).Scan(&quantity)

	// A record is implicitly absent until first stocked.
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query inventory: %w", err)
	}

	return quantity, nil
}

func (m *MySQLInventory) Adjust(ctx context.Context, productID, locationID string, delta int) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if delta >= 0 {
		if err := stockIn(ctx, tx, productID, locationID, delta); err != nil {
			return 0, err
		}
	} else {
		if err := reserveStock(ctx, tx, productID, locationID, -delta); err != nil {
			return 0, err
		}
	}

	var quantity int
	err = tx.QueryRowContext(ctx, `
		SELECT quantity FROM product_inventory
		WHERE product_id = ? AND location_id = ?`,
		productID, locationID,
	).Scan(&quantity)
	if err != nil {
		return 0, fmt.Errorf("query inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return quantity, nil
}

func (m *MySQLInventory) StockIn(ctx context.Context, productID, locationID string, quantity int) error {
	return stockIn(ctx, m.db, productID, locationID, quantity)
}
