package port

import (
	"context"

	"github.com/mk2304/postmart/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists the order header, its items and the matching
	// inventory decrements as one transaction. Per cart line, in the
	// order given, stock is reserved before the item row is inserted;
	// the first line that cannot be reserved aborts the whole
	// transaction with an InsufficientStockError naming its product.
	CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error

	// GetOrder retrieves an order header and its items by order ID.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, []domain.OrderItem, error)
}

type InventoryRepository interface {
	// Reserve atomically checks and decrements available quantity for a
	// (product, location) pair, failing with InsufficientStockError and
	// no mutation when the quantity on hand is smaller.
	Reserve(ctx context.Context, productID, locationID string, quantity int) error

	// Release atomically restores quantity (cancellation/refund path).
	Release(ctx context.Context, productID, locationID string, quantity int) error

	// GetAvailable reads the current quantity; a missing record reads
	// as zero. Not authoritative under concurrency — use Reserve for
	// decisions.
	GetAvailable(ctx context.Context, productID, locationID string) (int, error)

	// Adjust applies a signed delta and returns the new quantity. A
	// negative delta that would take the quantity below zero fails with
	// InsufficientStockError.
	Adjust(ctx context.Context, productID, locationID string, delta int) (int, error)

	// StockIn adds quantity, creating the inventory record on first use.
	StockIn(ctx context.Context, productID, locationID string, quantity int) error
}

type ProductRepository interface {
	// CreateProduct inserts the product row and its initial inventory
	// record at locationID in one transaction.
	CreateProduct(ctx context.Context, p domain.Product, locationID string, initialQuantity int) error

	// UpdateProduct rewrites the product fields and sets the on-hand
	// quantity at locationID.
	UpdateProduct(ctx context.Context, p domain.Product, locationID string, quantity int) error

	// DeleteProduct removes the product and its inventory record at
	// locationID.
	DeleteProduct(ctx context.Context, productID, locationID string) error

	GetProduct(ctx context.Context, productID, locationID string) (*domain.StockedProduct, error)
	ListProducts(ctx context.Context, locationID string) ([]domain.StockedProduct, error)

	// EmployeeLocation resolves the location an employee works at.
	EmployeeLocation(ctx context.Context, employeeID string) (string, error)
}
