package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mk2304/postmart/internal/core/domain"
)

type MySQLProducts struct {
	db *sql.DB
}

func NewMySQLProducts(db *sql.DB) *MySQLProducts {
	return &MySQLProducts{db: db}
}

func (m *MySQLProducts) CreateProduct(ctx context.Context, p domain.Product, locationID string, initialQuantity int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, image_url, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := stockIn(ctx, tx, p.ID, locationID, initialQuantity); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product: %w", err)
	}

	return nil
}

func (m *MySQLProducts) UpdateProduct(ctx context.Context, p domain.Product, locationID string, quantity int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, image_url = ?, updated_at = NOW()
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.ImageURL, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_inventory (product_id, location_id, quantity, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), updated_at = NOW()`,
		p.ID, locationID, quantity,
	)
	if err != nil {
		return fmt.Errorf("set inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product update: %w", err)
	}

	return nil
}

func (m *MySQLProducts) DeleteProduct(ctx context.Context, productID, locationID string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM product_inventory WHERE product_id = ? AND location_id = ?`,
		productID, locationID,
	)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product delete: %w", err)
	}

	return nil
}

func (m *MySQLProducts) GetProduct(ctx context.Context, productID, locationID string) (*domain.StockedProduct, error) {
	var sp domain.StockedProduct
	err := m.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.created_by,
		       p.created_at, p.updated_at, pi.quantity
		FROM products p
		JOIN product_inventory pi ON pi.product_id = p.id
		WHERE p.id = ? AND pi.location_id = ?`,
		productID, locationID,
	).Scan(
		&sp.ID, &sp.Name, &sp.Description, &sp.Price, &sp.ImageURL, &sp.CreatedBy,
		&sp.CreatedAt, &sp.UpdatedAt, &sp.Available,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &sp, nil
}

func (m *MySQLProducts) ListProducts(ctx context.Context, locationID string) ([]domain.StockedProduct, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.created_by,
		       p.created_at, p.updated_at, pi.quantity
		FROM products p
		JOIN product_inventory pi ON pi.product_id = p.id
		WHERE pi.location_id = ?
		ORDER BY p.name`,
		locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.StockedProduct
	for rows.Next() {
		var sp domain.StockedProduct
		err := rows.Scan(
			&sp.ID, &sp.Name, &sp.Description, &sp.Price, &sp.ImageURL, &sp.CreatedBy,
			&sp.CreatedAt, &sp.UpdatedAt, &sp.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (m *MySQLProducts) EmployeeLocation(ctx context.Context, employeeID string) (string, error) {
	var locationID string
	err := m.db.QueryRowContext(ctx, `
		SELECT location_id FROM works_for WHERE employee_id = ?`, employeeID,
	).Scan(&locationID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query employee location: %w", err)
	}

	return locationID, nil
}
