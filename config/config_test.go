package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ID", "HTTP_PORT", "STORE_BACKEND", "TOKEN_TTL", "DIGEST_INTERVAL", "GENERATOR_SEED"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "default-app-id", cfg.AppID)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.False(t, cfg.UsePostgres())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.DigestInterval)
	assert.Equal(t, int64(0), cfg.GeneratorSeed)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ID", "trend-moni")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("GENERATOR_SEED", "42")
	t.Setenv("MAX_CONCURRENCY", "7")

	cfg := FromEnv()

	assert.Equal(t, "trend-moni", cfg.AppID)
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, int64(42), cfg.GeneratorSeed)
	assert.Equal(t, 7, cfg.MaxConcurrency)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("DIGEST_INTERVAL", "-1h")

	cfg := FromEnv()

	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 48*time.Hour, cfg.DigestInterval)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=require", cfg.DSN())
}
