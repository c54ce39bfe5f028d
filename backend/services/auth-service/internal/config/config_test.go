package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("AUTH_POSTGRES_DSN", "postgres://localhost/evcast")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_JWT_ACCESS_TTL", "15m")
	t.Setenv("AUTH_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddress())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.True(t, cfg.Database.Migrate)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.Validate(), "DSN")

	cfg.Database.DSN = "postgres://x"
	assert.ErrorContains(t, cfg.Validate(), "secret")

	cfg.JWT.Secret = "s"
	cfg.JWT.AccessTTL = time.Hour
	cfg.JWT.RefreshTTL = time.Minute
	assert.ErrorContains(t, cfg.Validate(), "refresh ttl")

	cfg.JWT.RefreshTTL = 2 * time.Hour
	assert.NoError(t, cfg.Validate())
}
