package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductInput carries the mutable product fields. On update, nil pointers
// leave the stored value unchanged.
type ProductInput struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int
}

// ProductService manages the shared product catalog. Catalog price edits do
// not touch existing sale lines: those carry their own price snapshots.
type ProductService interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*Product, error)
	GetProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID int) (*Product, error)
	UpdateProduct(ctx context.Context, productID int, input ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, productID int) error
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func (s *productService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, invalidRequestf("product name is required")
	}
	if price.IsNegative() {
		return nil, negativeAmountErr("price", price)
	}
	if stock < 0 {
		return nil, invalidRequestf("stock cannot be negative, got %d", stock)
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, stock
	`, name, price, stock).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *productService) GetProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, price, stock FROM products ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, productID int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, price, stock FROM products WHERE id = $1",
		productID,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}
	return &p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID int, input ProductInput) (*Product, error) {
	current, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, negativeAmountErr("price", *input.Price)
		}
		current.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, invalidRequestf("stock cannot be negative, got %d", *input.Stock)
		}
		current.Stock = *input.Stock
	}
	if current.Name == "" {
		return nil, invalidRequestf("product name is required")
	}

	_, err = s.pool.Exec(ctx,
		"UPDATE products SET name = $1, price = $2, stock = $3 WHERE id = $4",
		current.Name, current.Price, current.Stock, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	return current, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 = foreign_key_violation: the product appears on sale lines.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return invalidRequestf("product %d is referenced by existing sales", productID)
		}
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "product", ID: productID}
	}
	return nil
}
