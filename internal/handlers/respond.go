// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API endpoints for the blog and
// client portal services. Error responses share a single envelope with a
// Spanish-facing message and an optional details field.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// apiError is the error envelope every endpoint returns on failure.
type apiError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// listResponse wraps paginated collection payloads.
type listResponse struct {
	Data       any `json:"data"`
	Pagination any `json:"pagination"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, apiError{Message: message, Details: details})
}

// decodeBody decodes a JSON request body into dst. Responds 400 and
// returns false when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido",
			"El cuerpo debe ser un objeto JSON válido")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter as a UUID. Responds 400 and
// returns false on malformed input.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido",
			"El ID debe ser un UUID válido")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses a positive integer query parameter, falling back to
// def when absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
