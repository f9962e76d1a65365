package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "users:v1", cfg.EmailHashSalt)
	assert.Equal(t, 1, cfg.EmailHashVersion)
	assert.Equal(t, 200_000, cfg.KDFIterations)
	assert.Equal(t, []byte("change-me-jwt-secret"), cfg.JWTSecret)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "test.db")
	t.Setenv("JWT_SECRET", "!!! not base64 !!!")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "test.db")
	t.Setenv("JWT_ACCESS_TTL", "fifteen minutes")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRejectsDefaultSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example/app")
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "test.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}
