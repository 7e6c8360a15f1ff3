package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
)

var allKeys = []string{
	"CATALOG_PATH", "CART_BACKEND", "REDIS_ADDR", "POSTGRES_DSN",
	"CART_TTL", "STORE_CURRENCY", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog.yaml", c.CatalogPath)
	assert.Equal(t, BackendMemory, c.CartBackend)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Empty(t, c.PostgresDSN)
	assert.Equal(t, 720*time.Hour, c.CartTTL)
	assert.Equal(t, currency.USD, c.Currency)
	assert.Equal(t, zapcore.InfoLevel, c.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_PATH", "/srv/catalog.yaml")
	t.Setenv("CART_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://shop@db/shop")
	t.Setenv("CART_TTL", "15m")
	t.Setenv("STORE_CURRENCY", "jpy")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/catalog.yaml", c.CatalogPath)
	assert.Equal(t, BackendPostgres, c.CartBackend)
	assert.Equal(t, "postgres://shop@db/shop", c.PostgresDSN)
	assert.Equal(t, 15*time.Minute, c.CartTTL)
	assert.Equal(t, currency.JPY, c.Currency)
	assert.Equal(t, zapcore.DebugLevel, c.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
	}{
		{
			name:      "unknown backend",
			env:       map[string]string{"CART_BACKEND": "mongo"},
			wantError: "CART_BACKEND[mongo] is not supported",
		},
		{
			name:      "postgres without dsn",
			env:       map[string]string{"CART_BACKEND": "postgres"},
			wantError: "POSTGRES_DSN is required for backend[postgres]",
		},
		{
			name:      "negative ttl",
			env:       map[string]string{"CART_TTL": "-1h"},
			wantError: "CART_TTL[-1h0m0s] is negative",
		},
		{
			name: "bad ttl",
			env:  map[string]string{"CART_TTL": "soon"},
		},
		{
			name: "bad currency",
			env:  map[string]string{"STORE_CURRENCY": "ZZZ"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"LOG_LEVEL": "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			require.Error(t, err)
			if tt.wantError != "" {
				assert.EqualError(t, err, tt.wantError)
			}
		})
	}
}
