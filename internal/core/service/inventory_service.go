package service

import (
	"context"

	"github.com/mk2304/postmart/internal/core/domain"
	"github.com/mk2304/postmart/internal/port"
)

// InventoryService exposes the manual adjustment and read boundaries
// of the ledger. Checkout never goes through here; its reservations
// run inside the order transaction.
type InventoryService struct {
	inventory port.InventoryRepository
}

func NewInventoryService(inventory port.InventoryRepository) *InventoryService {
	return &InventoryService{inventory: inventory}
}

// Adjust applies a signed stock correction and returns the new
// quantity. A negative delta larger than the quantity on hand fails
// with insufficient stock and changes nothing.
func (s *InventoryService) Adjust(ctx context.Context, productID, locationID string, delta int) (int, error) {
	if productID == "" {
		return 0, &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	if locationID == "" {
		return 0, &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	if delta == 0 {
		return 0, &domain.ValidationError{Field: "delta", Reason: "must not be zero"}
	}
	return s.inventory.Adjust(ctx, productID, locationID, delta)
}

// Available is a point-in-time read; it must never feed a
// read-then-write decision, that is what Reserve is for.
func (s *InventoryService) Available(ctx context.Context, productID, locationID string) (int, error) {
	if productID == "" {
		return 0, &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	if locationID == "" {
		return 0, &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	return s.inventory.GetAvailable(ctx, productID, locationID)
}

// Release restores previously reserved stock, the cancellation and
// refund path.
func (s *InventoryService) Release(ctx context.Context, productID, locationID string, quantity int) error {
	if productID == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	if locationID == "" {
		return &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	if quantity < 1 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return s.inventory.Release(ctx, productID, locationID, quantity)
}
