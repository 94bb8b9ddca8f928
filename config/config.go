package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Supported DATABASE_TYPE values
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Config holds the runtime settings of the API and the management CLI
type Config struct {
	AppEnv       string `env:"APP_ENV" default:"development"`
	Port         string `env:"PORT" default:"8080"`
	DatabaseType string `env:"DATABASE_TYPE" default:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisURL     string `env:"REDIS_URL"`
	JWTSecret    string `env:"JWT_SECRET"`
	LogLevel     string `env:"LOG_LEVEL" default:"info"`
	LogFormat    string `env:"LOG_FORMAT" default:"text"`

	TokenTTL        time.Duration `env:"TOKEN_TTL" default:"60m"`
	LeaderboardTTL  time.Duration `env:"LEADERBOARD_TTL" default:"300s"`
	LeaderboardSize int           `env:"LEADERBOARD_SIZE" default:"5"`
	RatingRetention time.Duration `env:"RATING_RETENTION" default:"168h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" default:"24h"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"10"`

	// TrustedProxies lists the proxy IPs/CIDRs allowed to set X-Forwarded-For.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment variables")
	}
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load reads .env (if present) and the process environment into a validated Config
func Load() (*Config, error) {
	LoadEnv()

	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch cfg.DatabaseType {
	case DatabasePostgres, DatabaseSQLite:
	default:
		return fmt.Errorf("DATABASE_TYPE must be %q or %q, got %q", DatabasePostgres, DatabaseSQLite, cfg.DatabaseType)
	}

	if cfg.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if cfg.LeaderboardTTL <= 0 {
		return errors.New("LEADERBOARD_TTL must be positive")
	}
	if cfg.LeaderboardSize <= 0 {
		return errors.New("LEADERBOARD_SIZE must be positive")
	}
	if cfg.RatingRetention <= 0 || cfg.CleanupInterval <= 0 {
		return errors.New("RATING_RETENTION and CLEANUP_INTERVAL must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}
