package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcast/backend/libs/config"
)

// Config defines gateway configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"API_GATEWAY_HTTP_PORT"`
	} `yaml:"http"`
	JWT struct {
		Secret string `yaml:"secret" env:"API_GATEWAY_JWT_SECRET"`
	} `yaml:"jwt"`
	Services struct {
		AuthURL       string `yaml:"authUrl" env:"AUTH_SERVICE_URL"`
		VehiclesURL   string `yaml:"vehiclesUrl" env:"VEHICLES_SERVICE_URL"`
		SchedulingURL string `yaml:"schedulingUrl" env:"SCHEDULING_SERVICE_URL"`
	} `yaml:"services"`
	HTTPClient struct {
		Timeout time.Duration `yaml:"timeout" env:"API_GATEWAY_HTTP_TIMEOUT"`
	} `yaml:"httpClient"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Services.AuthURL = "http://localhost:8081"
	cfg.Services.VehiclesURL = "http://localhost:8082"
	cfg.Services.SchedulingURL = "http://localhost:8083"
	cfg.HTTPClient.Timeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret required")
	}
	for name, url := range map[string]string{
		"auth":       c.Services.AuthURL,
		"vehicles":   c.Services.VehiclesURL,
		"scheduling": c.Services.SchedulingURL,
	} {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("config: %s service url required", name)
		}
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// HTTPTimeout returns upstream client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPClient.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.HTTPClient.Timeout
}
