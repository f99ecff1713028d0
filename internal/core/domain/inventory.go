package domain

import "time"

// InventoryRecord tracks on-hand quantity for one product at one
// location. A missing record means zero stock; quantity never goes
// negative.
type InventoryRecord struct {
	ProductID  string
	LocationID string
	Quantity   int
	UpdatedAt  time.Time
}
