// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across both the
// blog and portal services.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	Host string `env:"APP_HOST, default=0.0.0.0"`
	Port string `env:"APP_PORT, default=8080"`
	Env  string `env:"APP_ENV,  default=development"`

	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins is a comma-separated list of allowed origins.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000,http://localhost:5000"`

	JWT      JWTConfig
	Postgres PostgresConfig
	Valkey   ValkeyConfig
	S3       S3Config
}

// JWTConfig configures bearer-token signing and verification.
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=24h"`
}

// PostgresConfig holds the database connection settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST,     default=localhost"`
	Port     string `env:"POSTGRES_PORT,     default=5432"`
	User     string `env:"POSTGRES_USER,     default=arsysintela"`
	Password string `env:"POSTGRES_PASSWORD, default=changeme"`
	Name     string `env:"POSTGRES_DB,       default=arsysintela"`
}

// ValkeyConfig holds the Valkey (Redis-compatible) cache settings.
type ValkeyConfig struct {
	Host     string `env:"VALKEY_HOST, default=localhost"`
	Port     string `env:"VALKEY_PORT, default=6379"`
	Password string `env:"VALKEY_PASSWORD"`
}

// S3Config holds S3-compatible object storage settings. All fields are
// optional; media uploads are disabled when Endpoint or AccessKey is empty.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION, default=eu-central-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET"`
	PublicURL string `env:"S3_PUBLIC_URL"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.JWT.Secret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWT.Secret = "development-secret"
	}

	if cfg.Env == "production" && cfg.Postgres.Password == "changeme" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}

	for i, origin := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(origin)
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Postgres.User, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.Name,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
