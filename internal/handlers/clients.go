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

// defaultClientPageSize is the client listing page size.
const defaultClientPageSize = 10

// Clients handles the client directory endpoints.
type Clients struct {
	clients      *store.ClientStore
	associations *store.ClientProductStore
	log          zerolog.Logger
}

// NewClients creates the clients handler.
func NewClients(clients *store.ClientStore, associations *store.ClientProductStore, log zerolog.Logger) *Clients {
	return &Clients{clients: clients, associations: associations, log: log}
}

// List handles GET /api/clients: paginated, newest first.
func (h *Clients) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultClientPageSize)

	clients, total, err := h.clients.List(page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("listing clients")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Data:       clients,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// Me handles GET /api/clients/me: the client record linked to the
// calling account.
func (h *Clients) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsOf(r)

	client, err := h.clients.FindByUserID(claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("fetching own client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado",
			"Su cuenta no está vinculada a ningún cliente")
		return
	}

	h.respondWithProducts(w, client)
}

// Get handles GET /api/clients/{id}: the client with its product
// associations.
func (h *Clients) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	client, err := h.clients.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", id).Msg("fetching client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	h.respondWithProducts(w, client)
}

func (h *Clients) respondWithProducts(w http.ResponseWriter, client *models.Client) {
	products, err := h.associations.ListByClient(client.ID)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", client.ID).Msg("listing client products")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	respondJSON(w, http.StatusOK, models.ClientWithProducts{
		Client:   *client,
		Products: products,
	})
}

type clientRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Notes   *string `json:"notes"`
}

// Create handles POST /api/clients. If the email matches a portal
// account not yet linked to a client, the new client is linked to it.
func (h *Clients) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(w, http.StatusBadRequest, "El nombre es requerido", "")
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	client := &models.Client{
		Name:    *req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Notes:   req.Notes,
	}

	created, err := h.clients.Create(client)
	if err != nil {
		if errors.Is(err, store.ErrUserAlreadyLinked) {
			respondError(w, http.StatusConflict, "Conflicto: el recurso ya existe",
				"La cuenta con ese email ya está vinculada a otro cliente")
			return
		}
		h.log.Error().Err(err).Str("name", client.Name).Msg("creating client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("client_id", created.ID).
		Str("name", created.Name).
		Str("user_id", actorID(r)).
		Msg("client created")
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/clients/{id}. Absent fields keep their current
// values; an email change re-runs the account link matching.
func (h *Clients) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req clientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	client, err := h.clients.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", id).Msg("fetching client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			respondError(w, http.StatusBadRequest, "El nombre es requerido", "")
			return
		}
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Company != nil {
		client.Company = req.Company
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	updated, err := h.clients.Update(client)
	if err != nil {
		if errors.Is(err, store.ErrUserAlreadyLinked) {
			respondError(w, http.StatusConflict, "Conflicto: el recurso ya existe",
				"La cuenta con ese email ya está vinculada a otro cliente")
			return
		}
		h.log.Error().Err(err).Stringer("client_id", id).Msg("updating client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	h.log.Info().
		Stringer("client_id", updated.ID).
		Str("name", updated.Name).
		Str("user_id", actorID(r)).
		Msg("client updated")
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/clients/{id}. Associations are removed by
// the cascading foreign key.
func (h *Clients) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	client, err := h.clients.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("client_id", id).Msg("fetching client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "Cliente no encontrado", "")
		return
	}

	if err := h.clients.Delete(id); err != nil {
		h.log.Error().Err(err).Stringer("client_id", id).Msg("deleting client")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("client_id", id).
		Str("name", client.Name).
		Str("user_id", actorID(r)).
		Msg("client deleted")
	w.WriteHeader(http.StatusNoContent)
}
