package domain

// Principal is the authenticated identity handed to the core by the
// auth layer. CustomerID is set for shoppers, EmployeeID for staff;
// services reject a missing required field as a validation error
// instead of assuming it is present.
type Principal struct {
	CustomerID string
	EmployeeID string
}
