package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleService is the sale transaction engine: it orchestrates creation,
// replacement and deletion of a sale as one atomic unit of work spanning the
// inventory and credit adjustments it implies. Every mutation runs inside a
// single database transaction; the first failure rolls back all of it.
//
// A sale has exactly one of two modes: itemized (line items, stock
// decrements, zero credit amount) or bare credit (no items, a customer, and
// a positive "fiado" amount added to that customer's balance).
type SaleService interface {
	// CreateSale records a new sale for the account. Mode selection: non-empty
	// Items makes an itemized sale; empty Items with a customer makes a
	// bare-credit sale; empty Items without a customer is an invalid request.
	CreateSale(ctx context.Context, userID int, input SaleInput) (*Sale, error)

	// ReplaceSale reverses the sale's current effects (stock restores, credit
	// re-derivation) and applies input with CreateSale's exact semantics, all
	// in one transaction. Net effect equals DeleteSale followed by CreateSale.
	ReplaceSale(ctx context.Context, userID, saleID int, input SaleInput) (*Sale, error)

	// DeleteSale reverses the sale's effects and removes it. For an itemized
	// sale every product's stock is restored; for a bare-credit sale the
	// customer's fiado balance is recomputed from surviving history.
	DeleteSale(ctx context.Context, userID, saleID int) error

	// GetSale returns one sale with its line items. Sales owned by another
	// account are reported as not found.
	GetSale(ctx context.Context, userID, saleID int) (*Sale, error)

	// GetSales returns all of the account's sales, newest first, with items.
	GetSales(ctx context.Context, userID int) ([]Sale, error)
}

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by PostgreSQL.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

// validateSaleInput enforces mode exclusivity before any mutation happens.
func validateSaleInput(input SaleInput) error {
	if len(input.Items) == 0 {
		if input.CustomerID == nil {
			return invalidRequestf("no items and no customer given")
		}
		if input.CreditAmount.IsNegative() {
			return negativeAmountErr("credit amount", input.CreditAmount)
		}
		return nil
	}

	if !input.CreditAmount.IsZero() {
		return invalidRequestf("a sale cannot carry both line items and a bare credit amount")
	}
	for i, it := range input.Items {
		if it.Quantity <= 0 {
			return invalidRequestf("item %d: quantity must be positive, got %d", i+1, it.Quantity)
		}
	}
	return nil
}

func (s *saleService) CreateSale(ctx context.Context, userID int, input SaleInput) (*Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if input.CustomerID != nil {
		if err := verifyCustomerTx(ctx, tx, userID, *input.CustomerID); err != nil {
			return nil, err
		}
	}

	var saleID int
	if len(input.Items) == 0 {
		// Bare-credit sale: the amount lands on the customer's fiado balance.
		if err := increaseCreditTx(ctx, tx, userID, *input.CustomerID, input.CreditAmount); err != nil {
			return nil, err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO sales (customer_id, user_id, credit_amount)
			VALUES ($1, $2, $3)
			RETURNING id
		`, input.CustomerID, userID, input.CreditAmount).Scan(&saleID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale: %w", err)
		}
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO sales (customer_id, user_id, credit_amount)
			VALUES ($1, $2, 0)
			RETURNING id
		`, input.CustomerID, userID).Scan(&saleID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale: %w", err)
		}
		if err := applyItemsTx(ctx, tx, saleID, input.Items); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale creation: %w", err)
	}

	return s.GetSale(ctx, userID, saleID)
}

func (s *saleService) ReplaceSale(ctx context.Context, userID, saleID int, input SaleInput) (*Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock and validate the existing sale.
	var oldCustomerID *int
	err = tx.QueryRow(ctx,
		"SELECT customer_id FROM sales WHERE id = $1 AND user_id = $2 FOR UPDATE",
		saleID, userID,
	).Scan(&oldCustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "sale", ID: saleID}
		}
		return nil, fmt.Errorf("failed to fetch sale %d: %w", saleID, err)
	}

	// Reversal phase: restore stock for every existing line item, then drop
	// the items.
	if err := reverseItemsTx(ctx, tx, saleID); err != nil {
		return nil, err
	}

	// Re-apply phase: identical branch selection to CreateSale, rewriting the
	// header in place.
	if input.CustomerID != nil {
		if err := verifyCustomerTx(ctx, tx, userID, *input.CustomerID); err != nil {
			return nil, err
		}
	}

	if len(input.Items) == 0 {
		_, err = tx.Exec(ctx,
			"UPDATE sales SET customer_id = $1, credit_amount = $2 WHERE id = $3",
			input.CustomerID, input.CreditAmount, saleID,
		)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE sales SET customer_id = $1, credit_amount = 0 WHERE id = $2",
			input.CustomerID, saleID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update sale %d: %w", saleID, err)
	}

	if len(input.Items) > 0 {
		if err := applyItemsTx(ctx, tx, saleID, input.Items); err != nil {
			return nil, err
		}
	}

	// Re-derive the fiado balance of every customer whose bare-credit history
	// this replace may have touched: the previous owner (the sale may have
	// been bare-credit before) and the new one. Recomputing after the header
	// rewrite covers both the reversal and the new amount in one fold.
	for _, customerID := range affectedCustomers(oldCustomerID, input.CustomerID) {
		if err := recomputeCreditTx(ctx, tx, customerID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale replacement: %w", err)
	}

	return s.GetSale(ctx, userID, saleID)
}

func (s *saleService) DeleteSale(ctx context.Context, userID, saleID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID *int
	err = tx.QueryRow(ctx,
		"SELECT customer_id FROM sales WHERE id = $1 AND user_id = $2 FOR UPDATE",
		saleID, userID,
	).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "sale", ID: saleID}
		}
		return fmt.Errorf("failed to fetch sale %d: %w", saleID, err)
	}

	hadItems, err := saleHasItemsTx(ctx, tx, saleID)
	if err != nil {
		return err
	}

	if err := reverseItemsTx(ctx, tx, saleID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", saleID); err != nil {
		return fmt.Errorf("failed to delete sale %d: %w", saleID, err)
	}

	// Deleting a bare-credit sale re-derives the customer's balance from the
	// surviving history instead of subtracting, tolerating prior drift.
	if !hadItems && customerID != nil {
		if err := recomputeCreditTx(ctx, tx, *customerID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sale deletion: %w", err)
	}
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, userID, saleID int) (*Sale, error) {
	var sale Sale
	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.customer_id, c.name, s.user_id, s.created_at, s.credit_amount
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1 AND s.user_id = $2
	`, saleID, userID).Scan(
		&sale.ID, &sale.CustomerID, &sale.CustomerName, &sale.UserID,
		&sale.CreatedAt, &sale.CreditAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "sale", ID: saleID}
		}
		return nil, fmt.Errorf("failed to fetch sale %d: %w", saleID, err)
	}

	items, err := fetchSaleItemsQ(ctx, s.pool, saleID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return &sale, nil
}

func (s *saleService) GetSales(ctx context.Context, userID int) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.customer_id, c.name, s.user_id, s.created_at, s.credit_amount
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.user_id = $1
		ORDER BY s.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(
			&sale.ID, &sale.CustomerID, &sale.CustomerName, &sale.UserID,
			&sale.CreatedAt, &sale.CreditAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	for i := range sales {
		items, err := fetchSaleItemsQ(ctx, s.pool, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

// ── Transaction helpers ──────────────────────────────────────────────────────

// verifyCustomerTx confirms the customer exists and belongs to the account.
func verifyCustomerTx(ctx context.Context, tx pgx.Tx, userID, customerID int) error {
	var id int
	err := tx.QueryRow(ctx,
		"SELECT id FROM customers WHERE id = $1 AND user_id = $2",
		customerID, userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "customer", ID: customerID}
		}
		return fmt.Errorf("failed to resolve customer %d: %w", customerID, err)
	}
	return nil
}

// applyItemsTx validates and applies every requested line item: each product
// is locked, stock-checked and decremented, and the line is recorded with the
// product's unit price snapshotted at this moment.
func applyItemsTx(ctx context.Context, tx pgx.Tx, saleID int, items []SaleItemInput) error {
	for i, item := range items {
		unitPrice, err := reserveStockTx(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, saleID, item.ProductID, item.Quantity, unitPrice); err != nil {
			return fmt.Errorf("failed to insert sale item %d: %w", i+1, err)
		}
	}
	return nil
}

// reverseItemsTx restores stock for every line item of the sale and removes
// the items.
func reverseItemsTx(ctx context.Context, tx pgx.Tx, saleID int) error {
	rows, err := tx.Query(ctx,
		"SELECT product_id, quantity FROM sale_items WHERE sale_id = $1",
		saleID,
	)
	if err != nil {
		return fmt.Errorf("failed to query sale items for reversal: %w", err)
	}

	type itemDelta struct {
		productID int
		quantity  int
	}
	var deltas []itemDelta
	for rows.Next() {
		var d itemDelta
		if err := rows.Scan(&d.productID, &d.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		deltas = append(deltas, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read sale items: %w", err)
	}

	for _, d := range deltas {
		if err := releaseStockTx(ctx, tx, d.productID, d.quantity); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sale_items WHERE sale_id = $1", saleID); err != nil {
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	return nil
}

func saleHasItemsTx(ctx context.Context, tx pgx.Tx, saleID int) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM sale_items WHERE sale_id = $1)",
		saleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sale items: %w", err)
	}
	return exists, nil
}

// affectedCustomers collects the distinct non-nil customer ids whose credit
// history a replace may have changed.
func affectedCustomers(prev, next *int) []int {
	var ids []int
	if prev != nil {
		ids = append(ids, *prev)
	}
	if next != nil && (prev == nil || *next != *prev) {
		ids = append(ids, *next)
	}
	return ids
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling
// shared query helpers.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchSaleItemsQ(ctx context.Context, q pgxRowQuerier, saleID int) ([]SaleItem, error) {
	rows, err := q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, si.quantity, si.unit_price
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.id
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}
