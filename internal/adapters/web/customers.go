package web

import (
	"net/http"

	"mercadinho-pos/internal/app"
)

// listCustomers handles GET /clientes.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	customers, err := h.svc.ListCustomers(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// createCustomer handles POST /clientes.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req app.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), claims.UserID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// getCustomer handles GET /clientes/{id}.
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	customer, err := h.svc.GetCustomer(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// updateCustomer handles PUT /clientes/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req app.UpdateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.svc.UpdateCustomer(r.Context(), claims.UserID, id, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// deleteCustomer handles DELETE /clientes/{id}.
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCustomer(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
