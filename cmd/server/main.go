package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	webAdapter "mercadinho-pos/internal/adapters/web"
	"mercadinho-pos/internal/app"
	"mercadinho-pos/internal/core"
	"mercadinho-pos/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool)
	saleService := core.NewSaleService(pool)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(userService, customerService, productService, saleService, reportingService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	var allowedOrigins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			allowedOrigins = append(allowedOrigins, strings.TrimSpace(origin))
		}
	}

	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
