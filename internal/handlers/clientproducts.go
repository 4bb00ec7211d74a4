// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"arsysintela/internal/models"
	"arsysintela/internal/store"
)

// ClientProducts handles the client–product association endpoints.
type ClientProducts struct {
	associations *store.ClientProductStore
	clients      *store.ClientStore
	products     *store.ProductStore
	log          zerolog.Logger
}

// NewClientProducts creates the client-products handler.
func NewClientProducts(associations *store.ClientProductStore, clients *store.ClientStore, products *store.ProductStore, log zerolog.Logger) *ClientProducts {
	return &ClientProducts{
		associations: associations,
		clients:      clients,
		products:     products,
		log:          log,
	}
}

// ListByClient handles GET /api/clients/{id}/products.
func (h *ClientProducts) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r)
	if !ok {
		return
	}

	client, err := h.clients.FindByID(clientID)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", clientID).Msg("fetching client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	associations, err := h.associations.ListByClient(clientID)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", clientID).Msg("listing client products")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	respondJSON(w, http.StatusOK, associations)
}

type associationCreateRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	Status    string     `json:"status" validate:"omitempty,oneof=active suspended ended"`
	StartDate *string    `json:"start_date"`
	EndDate   *string    `json:"end_date"`
	Notes     *string    `json:"notes"`
}

// Add handles POST /api/clients/{id}/products: contracts a product for
// a client. A pair can be associated only once; re-adding yields 409.
func (h *ClientProducts) Add(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req associationCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == nil {
		respondError(w, http.StatusBadRequest, "El product_id es requerido", "")
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	client, err := h.clients.FindByID(clientID)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", clientID).Msg("fetching client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	product, err := h.products.FindByID(*req.ProductID)
	if err != nil {
		h.log.Error().Err(err).Stringer("product_id", *req.ProductID).Msg("fetching product")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "Producto no encontrado", "")
		return
	}

	startDate, ok := parseOptionalDate(w, req.StartDate, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseOptionalDate(w, req.EndDate, "end_date")
	if !ok {
		return
	}

	status := models.AssociationStatus(req.Status)
	if req.Status == "" {
		status = models.AssociationActive
	}

	association := &models.ClientProduct{
		ClientID:  clientID,
		ProductID: *req.ProductID,
		Status:    status,
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     req.Notes,
	}

	created, err := h.associations.Create(association)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAssociation) {
			respondError(w, http.StatusConflict, "El producto ya está asociado a este cliente", "")
			return
		}
		// The client or product can disappear between the checks above
		// and the insert; the foreign keys catch that.
		if store.IsForeignKeyViolation(err) {
			respondError(w, http.StatusNotFound, "Cliente o producto no encontrado", "")
			return
		}
		h.log.Error().Err(err).
			Stringer("client_id", clientID).
			Stringer("product_id", *req.ProductID).
			Msg("creating association")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("client_id", clientID).
		Stringer("product_id", *req.ProductID).
		Str("user_id", actorID(r)).
		Msg("product associated to client")
	respondJSON(w, http.StatusCreated, created)
}

type associationUpdateRequest struct {
	Status    string  `json:"status" validate:"omitempty,oneof=active suspended ended"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Notes     *string `json:"notes"`
}

// Update handles PUT /api/client-products/{id}: changes the lifecycle
// state, dates, or notes of an association.
func (h *ClientProducts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req associationUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	association, err := h.associations.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("association_id", id).Msg("fetching association")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if association == nil {
		respondError(w, http.StatusNotFound, "Relación cliente-producto no encontrada", "")
		return
	}

	if req.Status != "" {
		association.Status = models.AssociationStatus(req.Status)
	}
	if req.StartDate != nil {
		startDate, ok := parseOptionalDate(w, req.StartDate, "start_date")
		if !ok {
			return
		}
		association.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, ok := parseOptionalDate(w, req.EndDate, "end_date")
		if !ok {
			return
		}
		association.EndDate = endDate
	}
	if req.Notes != nil {
		association.Notes = req.Notes
	}

	updated, err := h.associations.Update(association)
	if err != nil {
		h.log.Error().Err(err).Stringer("association_id", id).Msg("updating association")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Relación cliente-producto no encontrada", "")
		return
	}

	h.log.Info().
		Stringer("association_id", id).
		Str("status", string(updated.Status)).
		Str("user_id", actorID(r)).
		Msg("association updated")
	respondJSON(w, http.StatusOK, updated)
}

// Remove handles DELETE /api/client-products/{id}.
func (h *ClientProducts) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.associations.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("association_id", id).Msg("deleting association")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Relación cliente-producto no encontrada", "")
		return
	}

	h.log.Info().Stringer("association_id", id).Str("user_id", actorID(r)).Msg("association removed")
	w.WriteHeader(http.StatusNoContent)
}

// parseOptionalDate parses a YYYY-MM-DD date. A nil or empty input means
// no date.
func parseOptionalDate(w http.ResponseWriter, raw *string, field string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Error de validación",
			field+" debe ser una fecha válida (YYYY-MM-DD)")
		return nil, false
	}
	return &t, true
}
