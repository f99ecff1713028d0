package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	CreatedBy   string // employee who created the product
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockedProduct is a product joined with its on-hand quantity
// at one location.
type StockedProduct struct {
	Product
	Available int
}
