// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/store"
)

// Auth handles login and token issuance for the portal.
type Auth struct {
	users  *store.UserStore
	tokens *auth.Manager
	log    zerolog.Logger
}

// NewAuth creates the auth handler.
func NewAuth(users *store.UserStore, tokens *auth.Manager, log zerolog.Logger) *Auth {
	return &Auth{users: users, tokens: tokens, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login. Unknown emails and wrong passwords
// produce the same 401 so the response does not reveal which accounts
// exist.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email y contraseña son requeridos", "")
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("login lookup failed")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	if user == nil {
		h.log.Warn().Str("email", req.Email).Msg("login attempt for unknown email")
		respondError(w, http.StatusUnauthorized, "Credenciales inválidas", "")
		return
	}

	if !h.users.CheckPassword(user, req.Password) {
		h.log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")
		respondError(w, http.StatusUnauthorized, "Credenciales inválidas", "")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.log.Error().Err(err).Msg("token issue failed")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	h.log.Info().Str("email", user.Email).Bool("admin", user.IsAdmin()).Msg("login successful")
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.DisplayName,
			"role":  user.Role,
		},
	})
}
