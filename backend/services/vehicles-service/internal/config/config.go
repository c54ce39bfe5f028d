package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcast/backend/libs/config"
)

// Config defines vehicles service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"VEHICLES_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"VEHICLES_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr       string        `yaml:"addr" env:"VEHICLES_REDIS_ADDR"`
		Password   string        `yaml:"password" env:"VEHICLES_REDIS_PASSWORD"`
		DB         int           `yaml:"db" env:"VEHICLES_REDIS_DB"`
		CatalogTTL time.Duration `yaml:"catalogTtl" env:"VEHICLES_CATALOG_TTL"`
	} `yaml:"redis"`
	Data struct {
		ChargingPatternsCSV string `yaml:"chargingPatternsCsv" env:"VEHICLES_PATTERNS_CSV"`
	} `yaml:"data"`
	Models struct {
		CostURL     string        `yaml:"costUrl" env:"VEHICLES_COST_MODEL_URL"`
		DurationURL string        `yaml:"durationUrl" env:"VEHICLES_DURATION_MODEL_URL"`
		Columns     []string      `yaml:"columns" env:"VEHICLES_MODEL_COLUMNS"`
		Timeout     time.Duration `yaml:"timeout" env:"VEHICLES_MODEL_TIMEOUT"`
	} `yaml:"models"`
	Weather struct {
		APIKey    string        `yaml:"apiKey" env:"OPENWEATHER_API_KEY"`
		URL       string        `yaml:"url" env:"VEHICLES_WEATHER_URL"`
		Latitude  float64       `yaml:"latitude" env:"VEHICLES_WEATHER_LAT"`
		Longitude float64       `yaml:"longitude" env:"VEHICLES_WEATHER_LON"`
		TTL       time.Duration `yaml:"ttl" env:"VEHICLES_WEATHER_TTL"`
	} `yaml:"weather"`
	Tariffs struct {
		DefaultPricePerKWh float64 `yaml:"defaultPricePerKwh" env:"VEHICLES_DEFAULT_TARIFF"`
	} `yaml:"tariffs"`
}

// Load configuration from file/env.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8082"
	cfg.Redis.CatalogTTL = time.Hour
	cfg.Data.ChargingPatternsCSV = "data/ev_charging_patterns.csv"
	cfg.Models.Timeout = 5 * time.Second
	cfg.Weather.Latitude = 44.4268
	cfg.Weather.Longitude = 26.1025
	cfg.Weather.TTL = time.Minute

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
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database dsn required")
	}
	if strings.TrimSpace(c.Data.ChargingPatternsCSV) == "" {
		return errors.New("config: charging patterns csv required")
	}
	if c.Tariffs.DefaultPricePerKWh < 0 {
		return errors.New("config: default tariff must not be negative")
	}
	return nil
}

// RedisEnabled reports whether the catalog cache is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// WeatherEnabled reports whether live temperatures are configured.
func (c *Config) WeatherEnabled() bool {
	return strings.TrimSpace(c.Weather.APIKey) != ""
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8082"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
