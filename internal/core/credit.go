package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Credit ledger helpers. Customer.credit is a materialized view over the
// customer's bare-credit sale history; these helpers keep it in step inside
// the sale engine's transaction.

// increaseCreditTx locks the customer row (scoped to the owning account) and
// adds amount to its fiado balance.
func increaseCreditTx(ctx context.Context, tx pgx.Tx, userID, customerID int, amount decimal.Decimal) error {
	var current decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT credit FROM customers WHERE id = $1 AND user_id = $2 FOR UPDATE",
		customerID, userID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "customer", ID: customerID}
		}
		return fmt.Errorf("failed to lock customer %d: %w", customerID, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE customers SET credit = credit + $1 WHERE id = $2",
		amount, customerID,
	); err != nil {
		return fmt.Errorf("failed to increase credit for customer %d: %w", customerID, err)
	}
	return nil
}

// recomputeCreditTx re-derives the customer's fiado balance from scratch as
// the sum of credit_amount over the customer's surviving bare-credit sales
// (sales with no items). A full fold rather than incremental subtraction, so
// prior drift from direct balance edits does not compound.
func recomputeCreditTx(ctx context.Context, tx pgx.Tx, customerID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE customers SET credit = (
			SELECT COALESCE(SUM(s.credit_amount), 0)
			FROM sales s
			WHERE s.customer_id = customers.id
			  AND NOT EXISTS (SELECT 1 FROM sale_items si WHERE si.sale_id = s.id)
		)
		WHERE id = $1
	`, customerID)
	if err != nil {
		return fmt.Errorf("failed to recompute credit for customer %d: %w", customerID, err)
	}
	return nil
}
