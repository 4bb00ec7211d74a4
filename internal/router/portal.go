package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/handlers"
	"arsysintela/internal/middleware"
)

const (
	// loginRateLimit caps login attempts per IP within loginRateWindow.
	loginRateLimit  = 10
	loginRateWindow = 1 * time.Minute
)

// PortalDeps carries the handlers and services the portal router wires up.
type PortalDeps struct {
	Health         *handlers.Health
	Auth           *handlers.Auth
	Users          *handlers.Users
	Clients        *handlers.Clients
	Products       *handlers.Products
	ClientProducts *handlers.ClientProducts
	Tokens         *auth.Manager
	Log            zerolog.Logger

	CORSOrigins []string
}

// Portal creates the router for the client portal API. The returned
// limiter must be stopped on shutdown.
func Portal(deps PortalDeps) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Log))
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Metrics("portalapi"))
	r.Use(corsMiddleware(deps.CORSOrigins))

	r.Get("/api/health", deps.Health.Check)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Login is public but rate-limited per IP.
	limiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/api/auth/login", deps.Auth.Login)
	})

	// Everything else requires a valid token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))

		// User management is admin only.
		r.Route("/api/users", func(r chi.Router) {
			r.With(middleware.RequireAdmin(deps.Log)).Get("/", deps.Users.List)
			r.With(middleware.RequireAdmin(deps.Log)).Post("/", deps.Users.Create)

			// Password changes enforce self-or-admin in the handler.
			r.Put("/{id}/password", deps.Users.UpdatePassword)
		})

		r.Route("/api/clients", func(r chi.Router) {
			r.Get("/", deps.Clients.List)
			r.Get("/me", deps.Clients.Me)
			r.Post("/", deps.Clients.Create)
			r.Get("/{id}", deps.Clients.Get)
			r.Put("/{id}", deps.Clients.Update)
			r.Delete("/{id}", deps.Clients.Delete)

			r.Get("/{id}/products", deps.ClientProducts.ListByClient)
			r.Post("/{id}/products", deps.ClientProducts.Add)
		})

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", deps.Products.List)
			r.Get("/{id}", deps.Products.Get)
			r.Post("/", deps.Products.Create)
			r.Put("/{id}", deps.Products.Update)
		})

		r.Route("/api/client-products", func(r chi.Router) {
			r.Put("/{id}", deps.ClientProducts.Update)
			r.Delete("/{id}", deps.ClientProducts.Remove)
		})
	})

	return r, limiter
}
