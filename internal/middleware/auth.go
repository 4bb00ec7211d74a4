// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// claimsKey is the context key for the verified token claims.
const claimsKey contextKey = "claims"

// RequireAuth verifies the bearer token on every request and stores the
// decoded claims in the request context. Requests with a missing, invalid,
// or expired credential are rejected with 401 and a reason detail.
func RequireAuth(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Se requiere autenticación",
					"Debe proporcionar un token en el header Authorization: Bearer <token>")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "Token inválido", "El header Authorization no tiene el formato Bearer <token>")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					unauthorized(w, "Token expirado", "El token ha expirado. Inicie sesión nuevamente.")
					return
				}
				unauthorized(w, "Token inválido", "El token proporcionado no es válido.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated callers whose role is not admin.
// Must be applied after RequireAuth. Denials are security-relevant and
// are logged.
func RequireAdmin(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromCtx(r.Context())
			if claims == nil {
				unauthorized(w, "Se requiere autenticación", "")
				return
			}

			if claims.Role != models.RoleAdmin {
				log.Warn().
					Str("user_id", claims.UserID.String()).
					Str("role", string(claims.Role)).
					Str("path", r.URL.Path).
					Msg("forbidden: admin role required")
				writeJSON(w, http.StatusForbidden, errorBody{
					Message: "Acceso denegado",
					Details: "Solo los administradores pueden realizar esta acción",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromCtx extracts the verified token claims from the request
// context. Returns nil if the request did not pass RequireAuth.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// CtxWithClaims returns a context carrying the given claims, using the
// same key the middleware uses. Intended for handler tests.
func CtxWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// errorBody matches the error envelope the handlers use.
type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func unauthorized(w http.ResponseWriter, message, details string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Message: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
