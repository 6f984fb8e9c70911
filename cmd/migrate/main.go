// migrate applies the SQL files under migrations/ to the database named by
// DATABASE_URL, in lexical order.
//
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"

	"mercadinho-pos/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatalf("Failed to list migrations: %v", err)
	}
	sort.Strings(files)

	for _, file := range files {
		sqlFile, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", file, err)
		}
		if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
			log.Fatalf("Migration %s failed: %v", file, err)
		}
		log.Printf("Applied %s", file)
	}
	log.Println("Migrations applied successfully.")
}
