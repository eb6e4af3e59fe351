// Package config loads service configuration from the environment. A .env
// file in the working directory is honored for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// Database configuration. Driver is "postgres" in deployments and
	// "sqlite" for local runs without a database server.
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"mealmax"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// Redis configuration. An empty address disables the leaderboard cache.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// LeaderboardTTL bounds how stale a cached leaderboard may get.
	LeaderboardTTL time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"30s"`
}

// Load reads configuration from the environment, preceded by a best-effort
// .env load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s", c.DBDriver)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	return nil
}

// DSN returns the connection string for the configured database driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBName
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
