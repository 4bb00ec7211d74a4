// Package router sets up the HTTP routes and middleware chains for the
// blog and portal services. Each service gets its own router with public
// and authenticated route groups.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/handlers"
	"arsysintela/internal/middleware"
)

// BlogDeps carries the handlers and services the blog router wires up.
type BlogDeps struct {
	Health *handlers.Health
	Posts  *handlers.Posts
	Media  *handlers.Media
	Tokens *auth.Manager
	Log    zerolog.Logger

	// CORSOrigins lists allowed origins; empty allows all.
	CORSOrigins []string
}

// Blog creates the router for the public blog API.
func Blog(deps BlogDeps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer(deps.Log))
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Metrics("blogapi"))
	r.Use(corsMiddleware(deps.CORSOrigins))

	r.Get("/api/health", deps.Health.Check)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public read endpoints.
	r.Get("/api/posts", deps.Posts.List)
	r.Get("/api/posts/{slug}", deps.Posts.Detail)

	// Admin endpoints: valid token plus admin role.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))
		r.Use(middleware.RequireAdmin(deps.Log))

		r.Post("/api/posts", deps.Posts.Create)
		r.Put("/api/posts/{id}", deps.Posts.Update)
		r.Delete("/api/posts/{id}", deps.Posts.Delete)

		r.Post("/api/media", deps.Media.Upload)
		r.Delete("/api/media", deps.Media.Delete)
	})

	return r
}

// corsMiddleware builds the shared CORS policy. An empty origin list
// falls back to allowing any origin, matching local development setups.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
