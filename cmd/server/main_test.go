package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"healthbite/backend/internal/api"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(envMap(nil))

	assert.Equal(t, "2000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.API.DBDriver)
	assert.Equal(t, "healthbite.db", cfg.API.DBDSN)
	assert.Equal(t, api.SeedSample, cfg.API.SeedCatalog)
	assert.Zero(t, cfg.API.MenuWorkers)
	assert.Empty(t, cfg.API.JWTSecret)
	assert.False(t, cfg.LogJSON)
	assert.Len(t, cfg.API.AllowedOrigins, 2)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg := loadConfig(envMap(map[string]string{
		"PORT":               "8080",
		"DB_DRIVER":          "postgres",
		"DB_DSN":             "host=db user=hb",
		"HEALTHBITE_DB_PATH": "ignored.db",
		"JWT_SECRET":         "s3cret",
		"MENU_WORKERS":       "6",
		"SEED_CATALOG":       "none",
		"ALLOWED_ORIGINS":    "https://a.example, https://b.example ,",
		"LOG_FORMAT":         "JSON",
	}))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.API.DBDriver)
	assert.Equal(t, "host=db user=hb", cfg.API.DBDSN)
	assert.Equal(t, "s3cret", cfg.API.JWTSecret)
	assert.Equal(t, 6, cfg.API.MenuWorkers)
	assert.Equal(t, api.SeedNone, cfg.API.SeedCatalog)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.True(t, cfg.LogJSON)
}

func TestLoadConfigFallbacks(t *testing.T) {
	cfg := loadConfig(envMap(map[string]string{
		"HEALTHBITE_DB_PATH": "/data/hb.db",
		"MENU_WORKERS":       "-2",
		"ALLOWED_ORIGINS":    "*",
	}))

	assert.Equal(t, "/data/hb.db", cfg.API.DBDSN)
	assert.Zero(t, cfg.API.MenuWorkers)
	assert.Nil(t, cfg.API.AllowedOrigins)
}
