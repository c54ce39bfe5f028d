package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_GATEWAY_JWT_SECRET", "s3cret")
	t.Setenv("SCHEDULING_SERVICE_URL", "http://scheduling:8083")
	t.Setenv("API_GATEWAY_HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "http://localhost:8081", cfg.Services.AuthURL)
	assert.Equal(t, "http://scheduling:8083", cfg.Services.SchedulingURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout())
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.Validate(), "jwt secret")

	cfg.JWT.Secret = "s"
	cfg.Services.AuthURL = "http://auth"
	cfg.Services.VehiclesURL = "http://vehicles"
	assert.ErrorContains(t, cfg.Validate(), "scheduling")

	cfg.Services.SchedulingURL = "http://scheduling"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())

	cfg.HTTP.Port = ":9000"
	assert.Equal(t, ":9000", cfg.HTTPAddress())
}
