package web

import (
	"net/http"
	"strconv"

	"mercadinho-pos/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
// An empty allowedOrigins disables CORS.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// Public routes.
	r.Get("/api/health", h.health)
	r.Post("/auth/cadastro", h.register)
	r.Post("/auth/login", h.login)

	// Everything below requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/auth/verificar", h.verify)

		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/produtos", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/vendas", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Get("/{id}", h.getSale)
			r.Put("/{id}", h.replaceSale)
			r.Delete("/{id}", h.deleteSale)
		})

		r.Route("/relatorios", func(r chi.Router) {
			r.Get("/vendas", h.salesReport)
			r.Get("/clientes", h.customersReport)
			r.Get("/produtos", h.productsReport)
			r.Get("/resumo", h.summaryReport)
		})
	})

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses the {id} URL parameter; answers 400 and returns false on
// garbage.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id: expected an integer", "INVALID_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
