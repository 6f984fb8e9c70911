package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for the caller-visible failure classes.
// Use with errors.Is; anything not matching one of these is treated as an
// internal storage failure by the layers above.
var (
	// ErrInvalidRequest is returned for malformed or missing input
	// (no items and no customer, unparseable date or id filter).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when a referenced customer, product or sale
	// does not exist (or belongs to another account).
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a requested quantity exceeds
	// the product's available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// NotFoundError identifies the missing entity.
type NotFoundError struct {
	Entity string // "customer", "product", "sale"
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError carries the offending product and quantities.
type InsufficientStockError struct {
	ProductID   int
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidRequestError carries a human-readable description of the bad input.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return e.Reason }

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

func invalidRequestf(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// negativeAmountErr is a shared guard for money inputs.
func negativeAmountErr(field string, amount decimal.Decimal) error {
	return invalidRequestf("%s cannot be negative, got %s", field, amount)
}
