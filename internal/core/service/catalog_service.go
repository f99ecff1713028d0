package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mk2304/postmart/internal/core/domain"
	"github.com/mk2304/postmart/internal/port"
)

// CatalogService is plain per-product CRUD. Mutations act at the
// calling employee's location, resolved from the works_for table.
type CatalogService struct {
	products port.ProductRepository
}

func NewCatalogService(products port.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) CreateProduct(ctx context.Context, principal domain.Principal, name, description, imageURL string, price float64, quantity int) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductFields(name, price, quantity); err != nil {
		return nil, err
	}

	locationID, err := s.employeeLocation(ctx, principal)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price,
		ImageURL:    strings.TrimSpace(imageURL),
		CreatedBy:   principal.EmployeeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.CreateProduct(ctx, product, locationID, quantity); err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, principal domain.Principal, productID, name, description, imageURL string, price float64, quantity int) error {
	if productID == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	name = strings.TrimSpace(name)
	if err := validateProductFields(name, price, quantity); err != nil {
		return err
	}

	locationID, err := s.employeeLocation(ctx, principal)
	if err != nil {
		return err
	}

	product := domain.Product{
		ID:          productID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price,
		ImageURL:    strings.TrimSpace(imageURL),
	}

	return s.products.UpdateProduct(ctx, product, locationID, quantity)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, principal domain.Principal, productID string) error {
	if productID == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "required"}
	}

	locationID, err := s.employeeLocation(ctx, principal)
	if err != nil {
		return err
	}

	return s.products.DeleteProduct(ctx, productID, locationID)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID, locationID string) (*domain.StockedProduct, error) {
	if productID == "" {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	if locationID == "" {
		return nil, &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	return s.products.GetProduct(ctx, productID, locationID)
}

func (s *CatalogService) ListProducts(ctx context.Context, locationID string) ([]domain.StockedProduct, error) {
	if locationID == "" {
		return nil, &domain.ValidationError{Field: "location_id", Reason: "required"}
	}
	return s.products.ListProducts(ctx, locationID)
}

func (s *CatalogService) employeeLocation(ctx context.Context, principal domain.Principal) (string, error) {
	if principal.EmployeeID == "" {
		return "", &domain.ValidationError{Field: "employee_id", Reason: "required"}
	}
	return s.products.EmployeeLocation(ctx, principal.EmployeeID)
}

func validateProductFields(name string, price float64, quantity int) error {
	if name == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if price < 0 {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}
