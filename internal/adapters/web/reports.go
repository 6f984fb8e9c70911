package web

import "net/http"

// salesReport handles GET /relatorios/vendas.
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	sales, err := h.svc.SalesReport(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// customersReport handles GET /relatorios/clientes.
func (h *Handler) customersReport(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	customers, err := h.svc.ListCustomers(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// productsReport handles GET /relatorios/produtos.
func (h *Handler) productsReport(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// summaryReport handles GET /relatorios/resumo with optional inicio, fim and
// cliente_id query filters.
func (h *Handler) summaryReport(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	q := r.URL.Query()

	summary, err := h.svc.SummaryReport(r.Context(), claims.UserID,
		q.Get("inicio"), q.Get("fim"), q.Get("cliente_id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
