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

// Users handles account management for the portal.
type Users struct {
	users *store.UserStore
	log   zerolog.Logger
}

// NewUsers creates the users handler.
func NewUsers(users *store.UserStore, log zerolog.Logger) *Users {
	return &Users{users: users, log: log}
}

// List handles GET /api/users (admin): all accounts, newest first.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.log.Error().Err(err).Msg("listing users")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type userCreateRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"name"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin user"`
}

// Create handles POST /api/users (admin). Role defaults to user.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkStruct(w, &req) {
		return
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}

	user, err := h.users.Create(req.Email, req.Password, req.Name, role)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Conflicto: el recurso ya existe",
				"Ya existe un usuario con ese email")
			return
		}
		h.log.Error().Err(err).Str("email", req.Email).Msg("creating user")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("user_id", user.ID).
		Str("email", user.Email).
		Str("created_by", actorID(r)).
		Msg("user created")
	respondJSON(w, http.StatusCreated, user)
}

type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword handles PUT /api/users/{id}/password. Admins may change
// any password; other callers may only change their own and must confirm
// the current one. A non-admin targeting another account gets 403.
func (h *Users) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	claims := claimsOf(r)
	isAdmin := claims.Role == models.RoleAdmin
	isOwnAccount := claims.UserID == id

	if !isAdmin && !isOwnAccount {
		h.log.Warn().
			Str("user_id", claims.UserID.String()).
			Stringer("target_id", id).
			Msg("forbidden password change attempt")
		respondError(w, http.StatusForbidden, "Acceso denegado",
			"Solo puede cambiar su propia contraseña")
		return
	}

	var req passwordUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "La nueva contraseña es requerida", "")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(w, http.StatusBadRequest, "La nueva contraseña debe tener al menos 8 caracteres", "")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		h.log.Error().Err(err).Stringer("user_id", id).Msg("fetching user")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "Usuario no encontrado", "")
		return
	}

	// Self-service changes confirm the current password. Admin changes
	// (including an admin's own account) skip the confirmation.
	if isOwnAccount && !isAdmin {
		if req.CurrentPassword == "" {
			respondError(w, http.StatusBadRequest,
				"La contraseña actual es requerida para cambiar tu propia contraseña", "")
			return
		}
		if !h.users.CheckPassword(user, req.CurrentPassword) {
			h.log.Warn().Str("email", user.Email).Msg("password change with wrong current password")
			respondError(w, http.StatusUnauthorized, "La contraseña actual es incorrecta", "")
			return
		}
	}

	if err := h.users.UpdatePassword(id, req.NewPassword); err != nil {
		h.log.Error().Err(err).Stringer("user_id", id).Msg("updating password")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().
		Stringer("user_id", id).
		Str("changed_by", claims.UserID.String()).
		Bool("admin", isAdmin).
		Msg("password updated")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Contraseña actualizada correctamente",
	})
}
