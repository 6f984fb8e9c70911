package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CustomerInput carries the mutable customer fields. On update, nil pointers
// leave the stored value unchanged.
type CustomerInput struct {
	Name      *string
	Phone     *string
	Credit    *decimal.Decimal
	Reference *string
}

// CustomerService manages the account's customer records. Credit edits made
// here write the balance directly; the sale engine's recompute-on-delete
// tolerates any drift this introduces.
type CustomerService interface {
	CreateCustomer(ctx context.Context, userID int, name, phone string, credit decimal.Decimal, reference string) (*Customer, error)
	GetCustomers(ctx context.Context, userID int) ([]Customer, error)
	GetCustomer(ctx context.Context, userID, customerID int) (*Customer, error)
	UpdateCustomer(ctx context.Context, userID, customerID int, input CustomerInput) (*Customer, error)
	DeleteCustomer(ctx context.Context, userID, customerID int) error
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CreateCustomer(ctx context.Context, userID int, name, phone string, credit decimal.Decimal, reference string) (*Customer, error) {
	if name == "" {
		return nil, invalidRequestf("customer name is required")
	}
	if credit.IsNegative() {
		return nil, negativeAmountErr("credit", credit)
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (user_id, name, phone, credit, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, phone, credit, reference
	`, userID, name, phone, credit, reference).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Credit, &c.Reference,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) GetCustomers(ctx context.Context, userID int) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, phone, credit, reference
		FROM customers
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Credit, &c.Reference); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, userID, customerID int) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, phone, credit, reference
		FROM customers
		WHERE id = $1 AND user_id = $2
	`, customerID, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Credit, &c.Reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", ID: customerID}
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, userID, customerID int, input CustomerInput) (*Customer, error) {
	current, err := s.GetCustomer(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Phone != nil {
		current.Phone = *input.Phone
	}
	if input.Credit != nil {
		if input.Credit.IsNegative() {
			return nil, negativeAmountErr("credit", *input.Credit)
		}
		current.Credit = *input.Credit
	}
	if input.Reference != nil {
		current.Reference = *input.Reference
	}
	if current.Name == "" {
		return nil, invalidRequestf("customer name is required")
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE customers SET name = $1, phone = $2, credit = $3, reference = $4
		WHERE id = $5 AND user_id = $6
	`, current.Name, current.Phone, current.Credit, current.Reference, customerID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}
	return current, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, userID, customerID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM customers WHERE id = $1 AND user_id = $2",
		customerID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "customer", ID: customerID}
	}
	return nil
}
