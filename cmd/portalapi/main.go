// Package main is the entry point for the client portal API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arsysintela/internal/auth"
	"arsysintela/internal/config"
	"arsysintela/internal/database"
	"arsysintela/internal/handlers"
	"arsysintela/internal/logging"
	"arsysintela/internal/router"
	"arsysintela/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logging.New(logging.Options{Service: "portalapi"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDev(),
		Service: "portalapi",
	})

	log.Info().Str("env", cfg.Env).Str("addr", cfg.Addr()).Msg("configuration loaded")

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if cfg.IsDev() {
		if err := database.Seed(db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	userStore := store.NewUserStore(db)
	clientStore := store.NewClientStore(db)
	productStore := store.NewProductStore(db)
	associationStore := store.NewClientProductStore(db)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	r, limiter := router.Portal(router.PortalDeps{
		Health:         handlers.NewHealth(db, "portalapi"),
		Auth:           handlers.NewAuth(userStore, tokens, log),
		Users:          handlers.NewUsers(userStore, log),
		Clients:        handlers.NewClients(clientStore, associationStore, log),
		Products:       handlers.NewProducts(productStore, log),
		ClientProducts: handlers.NewClientProducts(associationStore, clientStore, productStore, log),
		Tokens:         tokens,
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
	})
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped gracefully")
}
