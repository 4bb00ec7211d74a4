// Package main is the entry point for the blog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arsysintela/internal/auth"
	"arsysintela/internal/cache"
	"arsysintela/internal/config"
	"arsysintela/internal/database"
	"arsysintela/internal/handlers"
	"arsysintela/internal/logging"
	"arsysintela/internal/router"
	"arsysintela/internal/storage"
	"arsysintela/internal/store"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables.
	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logging.New(logging.Options{Service: "blogapi"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Structured logger: JSON in production, console output in development.
	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDev(),
		Service: "blogapi",
	})

	log.Info().Str("env", cfg.Env).Str("addr", cfg.Addr()).Msg("configuration loaded")

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	// Connect to Valkey for response caching. The blog stays up without
	// it; caching is just disabled.
	var postCache *cache.PostCache
	valkeyClient, err := cache.ConnectValkey(cfg.Valkey.Host, cfg.Valkey.Port, cfg.Valkey.Password, log)
	if err != nil {
		log.Warn().Err(err).Msg("valkey unavailable, response caching disabled")
	} else {
		defer valkeyClient.Close()
		postCache = cache.NewPostCache(valkeyClient, cache.DefaultPostTTL, log)
	}

	// Connect to S3-compatible object storage (optional).
	storageClient, err := storage.New(
		cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey,
		cfg.S3.Bucket, cfg.S3.PublicURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize S3 storage")
	}
	if storageClient == nil {
		log.Warn().Msg("s3 storage not configured, media uploads disabled")
	} else {
		log.Info().Str("endpoint", cfg.S3.Endpoint).Str("bucket", cfg.S3.Bucket).Msg("s3 storage connected")
	}

	postStore := store.NewPostStore(db)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	r := router.Blog(router.BlogDeps{
		Health:      handlers.NewHealth(db, "blogapi"),
		Posts:       handlers.NewPosts(postStore, postCache, log),
		Media:       handlers.NewMedia(storageClient, log),
		Tokens:      tokens,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
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
