package web

import (
	"net/http"

	"mercadinho-pos/internal/app"
)

// createSale handles POST /vendas. Stock decrements (or the fiado increment)
// and the sale record commit or roll back as one unit.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sale, err := h.svc.CreateSale(r.Context(), claims.UserID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

// getSale handles GET /vendas/{id}.
func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sale, err := h.svc.GetSale(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// replaceSale handles PUT /vendas/{id}.
func (h *Handler) replaceSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sale, err := h.svc.ReplaceSale(r.Context(), claims.UserID, id, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// deleteSale handles DELETE /vendas/{id}.
func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteSale(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
