// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"arsysintela/internal/auth"
	"arsysintela/internal/database"
	"arsysintela/internal/middleware"
	"arsysintela/internal/models"
	"arsysintela/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "arsysintela")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "arsysintela")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. The
// post cache is nil so responses always hit the database.
type testEnv struct {
	DB             *sql.DB
	Tokens         *auth.Manager
	UserStore      *store.UserStore
	PostStore      *store.PostStore
	ClientStore    *store.ClientStore
	ProductStore   *store.ProductStore
	AssocStore     *store.ClientProductStore
	Auth           *Auth
	Users          *Users
	Posts          *Posts
	Clients        *Clients
	Products       *Products
	ClientProducts *ClientProducts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	log := zerolog.Nop()
	tokens := auth.NewManager("handlers-test-secret", time.Hour)

	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	clientStore := store.NewClientStore(db)
	productStore := store.NewProductStore(db)
	assocStore := store.NewClientProductStore(db)

	return &testEnv{
		DB:             db,
		Tokens:         tokens,
		UserStore:      userStore,
		PostStore:      postStore,
		ClientStore:    clientStore,
		ProductStore:   productStore,
		AssocStore:     assocStore,
		Auth:           NewAuth(userStore, tokens, log),
		Users:          NewUsers(userStore, log),
		Posts:          NewPosts(postStore, nil, log),
		Clients:        NewClients(clientStore, assocStore, log),
		Products:       NewProducts(productStore, log),
		ClientProducts: NewClientProducts(assocStore, clientStore, productStore, log),
	}
}

// testClaims builds verified claims the way RequireAuth would.
func testClaims(userID uuid.UUID, email string, role models.Role) *auth.Claims {
	return &auth.Claims{UserID: userID, Email: email, Role: role}
}

// withClaims attaches claims to a request using the middleware key.
func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(middleware.CtxWithClaims(r.Context(), claims))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndClaims adds both a chi URL param and claims.
func withChiURLParamAndClaims(r *http.Request, key, value string, claims *auth.Claims) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.CtxWithClaims(ctx, claims)
	return r.WithContext(ctx)
}

// testUser creates an account and registers its cleanup.
func testUser(t *testing.T, env *testEnv, email, password string, role models.Role) *models.User {
	t.Helper()
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	})
	user, err := env.UserStore.Create(email, password, nil, role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// cleanPostsByPrefix removes test posts whose slug starts with prefix.
func cleanPostsByPrefix(t *testing.T, db *sql.DB, prefix string) {
	t.Helper()
	db.Exec("DELETE FROM posts WHERE slug LIKE $1 || '%'", prefix)
}

// cleanClientsByName removes test clients by name.
func cleanClientsByName(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		db.Exec("DELETE FROM clients WHERE name = $1", n)
	}
}

// cleanProductsByCode removes test products by code.
func cleanProductsByCode(t *testing.T, db *sql.DB, codes ...string) {
	t.Helper()
	for _, c := range codes {
		db.Exec("DELETE FROM products WHERE code = $1", c)
	}
}
