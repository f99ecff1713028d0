package domain

import "time"

type Order struct {
	ID         string
	CustomerID string
	LocationID string
	TotalPrice float64
	CreatedAt  time.Time
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64 // price at time of purchase, not the live price
}

// CartLine is one (product, quantity, unit price) tuple submitted as
// part of a checkout request.
type CartLine struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

type OrderConfirmation struct {
	OrderID    string
	TotalPrice float64
}
