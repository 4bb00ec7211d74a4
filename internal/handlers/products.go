// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"arsysintela/internal/models"
	"arsysintela/internal/store"
)

// defaultProductPageSize is the product listing page size.
const defaultProductPageSize = 10

// Products handles the product catalog endpoints. Products are never
// deleted; retired ones are marked inactive.
type Products struct {
	products *store.ProductStore
	log      zerolog.Logger
}

// NewProducts creates the products handler.
func NewProducts(products *store.ProductStore, log zerolog.Logger) *Products {
	return &Products{products: products, log: log}
}

// List handles GET /api/products: paginated, optionally filtered by the
// active flag.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultProductPageSize)

	var active *bool
	if raw := r.URL.Query().Get("active"); raw != "" {
		v := raw == "true"
		active = &v
	}

	products, total, err := h.products.List(page, limit, active)
	if err != nil {
		h.log.Error().Err(err).Msg("listing products")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Data:       products,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// Get handles GET /api/products/{id}.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("product_id", id).Msg("fetching product")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "Producto no encontrado", "")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

type productRequest struct {
	Code        *string `json:"code" validate:"omitempty,max=100"`
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// Create handles POST /api/products. Code and name are required; active
// defaults to true.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == nil || *req.Code == "" || req.Name == nil || *req.Name == "" {
		respondError(w, http.StatusBadRequest, "El código y el nombre son requeridos", "")
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	product := &models.Product{
		Code:        *req.Code,
		Name:        *req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	created, err := h.products.Create(product)
	if err != nil {
		if errors.Is(err, store.ErrCodeTaken) {
			respondError(w, http.StatusConflict, "Conflicto: el recurso ya existe",
				"Ya existe un producto con ese código")
			return
		}
		h.log.Error().Err(err).Str("code", product.Code).Msg("creating product")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("product_id", created.ID).
		Str("code", created.Code).
		Str("user_id", actorID(r)).
		Msg("product created")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/products/{id}. Absent fields keep their
// current values.
func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	product, err := h.products.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("product_id", id).Msg("fetching product")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "Producto no encontrado", "")
		return
	}

	if req.Code != nil {
		if *req.Code == "" {
			respondError(w, http.StatusBadRequest, "El código y el nombre son requeridos", "")
			return
		}
		product.Code = *req.Code
	}
	if req.Name != nil {
		if *req.Name == "" {
			respondError(w, http.StatusBadRequest, "El código y el nombre son requeridos", "")
			return
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	updated, err := h.products.Update(product)
	if err != nil {
		if errors.Is(err, store.ErrCodeTaken) {
			respondError(w, http.StatusConflict, "Conflicto: el recurso ya existe",
				"Ya existe un producto con ese código")
			return
		}
		h.log.Error().Err(err).Stringer("product_id", id).Msg("updating product")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Producto no encontrado", "")
		return
	}

	h.log.Info().
		Stringer("product_id", updated.ID).
		Str("code", updated.Code).
		Str("user_id", actorID(r)).
		Msg("product updated")
	respondJSON(w, http.StatusOK, updated)
}
