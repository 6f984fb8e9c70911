package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserService provides account registration and lookup. Password hashing is
// the application layer's concern; this service stores whatever hash it is
// given.
type UserService interface {
	// CreateUser registers a new account. Fails with an invalid-request error
	// when the email is already taken.
	CreateUser(ctx context.Context, name, email, passwordHash, establishment string) (*User, error)

	// GetByEmail finds an account by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns an account by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) CreateUser(ctx context.Context, name, email, passwordHash, establishment string) (*User, error) {
	if name == "" || email == "" || establishment == "" {
		return nil, invalidRequestf("name, email and establishment are required")
	}

	u := &User{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, establishment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, establishment, created_at
	`, name, email, passwordHash, establishment).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Establishment, &u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the email index.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, invalidRequestf("email %s is already registered", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, establishment, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Establishment, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %q: %w", email, err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, establishment, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Establishment, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: userID}
		}
		return nil, fmt.Errorf("failed to fetch user id=%d: %w", userID, err)
	}
	return u, nil
}
