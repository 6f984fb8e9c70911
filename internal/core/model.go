package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an authenticated account owning customers and sales.
type User struct {
	ID            int
	Name          string
	Email         string
	PasswordHash  string
	Establishment string
	CreatedAt     time.Time
}

// Customer is a store customer scoped to one account. Credit is the running
// "fiado" balance: the materialized sum of the customer's surviving
// bare-credit sales. It is maintained by the sale engine and recomputed from
// history whenever a bare-credit sale is removed.
type Customer struct {
	ID        int
	UserID    int
	Name      string
	Phone     string
	Credit    decimal.Decimal
	Reference string
}

// Product is a catalog item. Stock never goes negative; it is mutated only by
// the sale engine's reserve/release helpers or by direct catalog edits.
type Product struct {
	ID    int
	Name  string
	Price decimal.Decimal
	Stock int
}

// SaleKind distinguishes the two mutually exclusive payment-capture modes.
type SaleKind string

const (
	// SaleItemized is a sale of concrete products with line items.
	SaleItemized SaleKind = "itemized"
	// SaleBareCredit records an amount owed by a customer with no items.
	SaleBareCredit SaleKind = "bare_credit"
)

// Sale is one recorded sale. Exactly one mode holds: an itemized sale has
// Items and a zero CreditAmount; a bare-credit sale has no Items, a customer,
// and a positive CreditAmount.
type Sale struct {
	ID           int
	CustomerID   *int
	CustomerName *string // joined from customers, nil for anonymous sales
	UserID       int
	CreatedAt    time.Time
	CreditAmount decimal.Decimal
	Items        []SaleItem
}

// Kind reports the sale's payment-capture mode.
func (s *Sale) Kind() SaleKind {
	if len(s.Items) > 0 {
		return SaleItemized
	}
	return SaleBareCredit
}

// Total is the sum of line-item subtotals. Zero for bare-credit sales.
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// DisplayValue is the amount shown for the sale: the bare-credit amount when
// non-zero, otherwise the computed item total.
func (s *Sale) DisplayValue() decimal.Decimal {
	if !s.CreditAmount.IsZero() {
		return s.CreditAmount
	}
	return s.Total()
}

// SaleItem is one line of an itemized sale. UnitPrice is a snapshot of the
// product's price at sale time and never changes afterwards, preserving
// historical totals across catalog price edits.
type SaleItem struct {
	ID          int
	SaleID      int
	ProductID   int
	ProductName string // joined from products
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal is quantity × snapshotted unit price.
func (it SaleItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// SaleItemInput is one requested line when creating or replacing a sale.
type SaleItemInput struct {
	ProductID int
	Quantity  int
}

// SaleInput is the argument to CreateSale and ReplaceSale.
type SaleInput struct {
	CustomerID   *int
	Items        []SaleItemInput
	CreditAmount decimal.Decimal // used only when Items is empty
}
