// seed is a one-shot tool that loads demo data for local development: a demo
// user (demo@mercadinho.com / 123456), a handful of customers and a small
// product catalog. Safe to re-run.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"mercadinho-pos/internal/db"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Creating demo user...")
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	var userID int
	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, establishment)
		VALUES ('Demo', 'demo@mercadinho.com', $1, 'Mercadinho do Bairro')
		ON CONFLICT (email) DO UPDATE
		  SET name = EXCLUDED.name,
		      establishment = EXCLUDED.establishment
		RETURNING id;
	`, string(hash)).Scan(&userID)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	log.Println("Seeding product catalog...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, price, stock)
		SELECT p.name, p.price::numeric, p.stock
		FROM (VALUES
		    ('Arroz 5kg',          28.90, 40),
		    ('Feijao 1kg',          8.50, 60),
		    ('Acucar 1kg',          4.99, 80),
		    ('Cafe 500g',          18.90, 35),
		    ('Oleo de soja 900ml',  7.80, 50),
		    ('Leite 1L',            5.49, 90),
		    ('Sabao em po 1kg',    12.90, 25),
		    ('Refrigerante 2L',     9.99, 45)
		) AS p(name, price, stock)
		WHERE NOT EXISTS (SELECT 1 FROM products e WHERE e.name = p.name);
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (user_id, name, phone, credit, reference)
		SELECT $1, c.name, c.phone, 0, c.reference
		FROM (VALUES
		    ('Maria das Gracas', '11 98888-1001', 'vizinha da esquina'),
		    ('Seu Joaquim',      '11 98888-1002', 'paga toda sexta'),
		    ('Dona Cida',        '11 98888-1003', '')
		) AS c(name, phone, reference)
		WHERE NOT EXISTS (
		    SELECT 1 FROM customers e WHERE e.user_id = $1 AND e.name = c.name
		);
	`, userID)
	if err != nil {
		log.Fatalf("Failed to seed customers: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data loaded successfully.")
}
