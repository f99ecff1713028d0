package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mk2304/postmart/internal/core/domain"
	"github.com/mk2304/postmart/internal/port"
)

// CheckoutService places orders: it validates the cart, guards against
// duplicate submissions, and hands the order to the repository, which
// commits header, items and inventory decrements as one transaction.
type CheckoutService struct {
	orders port.OrderRepository
	cache  port.CacheRepository
}

func NewCheckoutService(orders port.OrderRepository, cache port.CacheRepository) *CheckoutService {
	return &CheckoutService{
		orders: orders,
		cache:  cache,
	}
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, requestID string, principal domain.Principal, locationID string, cart []domain.CartLine) (*domain.OrderConfirmation, error) {
	if err := validateCheckout(requestID, principal, locationID, cart); err != nil {
		return nil, err
	}

	idempotencyKey := fmt.Sprintf("checkout:%s", requestID)

	ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, domain.ErrDuplicateRequest
	}

	var total float64
	for _, line := range cart {
		total += float64(line.Quantity) * line.UnitPrice
	}

	now := time.Now()
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: principal.CustomerID,
		LocationID: locationID,
		TotalPrice: total,
		CreatedAt:  now,
	}

	items := make([]domain.OrderItem, len(cart))
	for i, line := range cart {
		items[i] = domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		// The order did not commit; free the key so the caller may
		// retry with the same request ID.
		s.cache.ClearIdempotency(ctx, idempotencyKey)
		return nil, err
	}

	return &domain.OrderConfirmation{
		OrderID:    order.ID,
		TotalPrice: total,
	}, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*domain.Order, []domain.OrderItem, error) {
	if orderID == "" {
		return nil, nil, &domain.ValidationError{Field: "order_id", Reason: "required"}
	}
	return s.orders.GetOrder(ctx, orderID)
}

func validateCheckout(requestID string, principal domain.Principal, locationID string, cart []domain.CartLine) error {
	if requestID == "" {
		return &domain.ValidationError{Field: "request_id", Reason: "required"}
	}
	if principal.CustomerID == "" {
		return &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if locationID == "" {
		return &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	if len(cart) == 0 {
		return &domain.ValidationError{Field: "cart", Reason: "must not be empty"}
	}
	for _, line := range cart {
		if line.ProductID == "" {
			return &domain.ValidationError{Field: "product_id", Reason: "required"}
		}
		if line.Quantity < 1 {
			return &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		if line.UnitPrice < 0 {
			return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
		}
	}
	return nil
}
