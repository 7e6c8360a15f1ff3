// Package config provides runtime configuration values for the storefront CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
)

// Cart snapshot backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds catalog, cart storage and logging settings.
type Config struct {
	CatalogPath string
	CartBackend string
	RedisAddr   string
	PostgresDSN string
	CartTTL     time.Duration
	Currency    currency.Unit
	LogLevel    zapcore.Level
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from environment with defaults.
func Load() (Config, error) {
	cfg := Config{
		CatalogPath: getenv("CATALOG_PATH", "catalog.yaml"),
		CartBackend: getenv("CART_BACKEND", BackendMemory),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		PostgresDSN: getenv("POSTGRES_DSN", ""),
	}

	switch cfg.CartBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required for backend[%s]", cfg.CartBackend)
		}
	default:
		return Config{}, fmt.Errorf("CART_BACKEND[%s] is not supported", cfg.CartBackend)
	}

	ttl, err := time.ParseDuration(getenv("CART_TTL", "720h"))
	if err != nil {
		return Config{}, fmt.Errorf("CART_TTL: %w", err)
	}
	if ttl < 0 {
		return Config{}, fmt.Errorf("CART_TTL[%s] is negative", ttl)
	}
	cfg.CartTTL = ttl

	code := getenv("STORE_CURRENCY", "USD")
	cfg.Currency, err = currency.ParseISO(code)
	if err != nil {
		return Config{}, fmt.Errorf("STORE_CURRENCY[%s]: %w", code, err)
	}

	cfg.LogLevel, err = zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}
