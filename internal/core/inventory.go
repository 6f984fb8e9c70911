package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Inventory adjustment helpers. These are pure stock deltas on products and
// are not transactional on their own: callers must invoke them inside the
// sale engine's transaction so that every delta commits or rolls back with
// the sale record that caused it.

// reserveStockTx locks the product row, verifies availability and decrements
// stock by qty. It returns the product's current unit price, read under the
// same lock, so the caller can snapshot it onto the sale line. Returns
// NotFoundError if the product does not exist and InsufficientStockError if
// qty exceeds the current stock.
func reserveStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) (decimal.Decimal, error) {
	var name string
	var price decimal.Decimal
	var stock int
	err := tx.QueryRow(ctx,
		"SELECT name, price, stock FROM products WHERE id = $1 FOR UPDATE",
		productID,
	).Scan(&name, &price, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, &NotFoundError{Entity: "product", ID: productID}
		}
		return decimal.Zero, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	if qty > stock {
		return decimal.Zero, &InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Available:   stock,
		}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2",
		qty, productID,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to reserve stock for product %d: %w", productID, err)
	}
	return price, nil
}

// releaseStockTx increments the product's stock by qty. It never fails on
// business grounds: released stock is always accepted back, there is no
// capacity ceiling.
func releaseStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error {
	tag, err := tx.Exec(ctx,
		"UPDATE products SET stock = stock + $1 WHERE id = $2",
		qty, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to release stock for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "product", ID: productID}
	}
	return nil
}
