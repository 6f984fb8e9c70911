package web

import (
	"net/http"

	"mercadinho-pos/internal/app"
)

// listProducts handles GET /produtos.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// createProduct handles POST /produtos.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req app.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// getProduct handles GET /produtos/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// updateProduct handles PUT /produtos/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req app.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// deleteProduct handles DELETE /produtos/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
