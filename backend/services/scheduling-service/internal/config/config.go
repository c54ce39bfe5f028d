package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	libconfig "evcast/backend/libs/config"
)

// Config defines scheduling service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"SCHEDULING_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"SCHEDULING_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"SCHEDULING_REDIS_ADDR"`
		Password string        `yaml:"password" env:"SCHEDULING_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"SCHEDULING_REDIS_DB"`
		HoldTTL  time.Duration `yaml:"holdTtl" env:"SCHEDULING_SLOT_HOLD_TTL"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" env:"SCHEDULING_JWT_SECRET"`
	} `yaml:"jwt"`
	Data struct {
		ChargingPatternsCSV string `yaml:"chargingPatternsCsv" env:"SCHEDULING_PATTERNS_CSV"`
	} `yaml:"data"`
	Scheduling struct {
		TimeZone         string `yaml:"timeZone" env:"SCHEDULING_TIME_ZONE"`
		OptimizeAttempts int    `yaml:"optimizeAttempts" env:"SCHEDULING_OPTIMIZE_ATTEMPTS"`
	} `yaml:"scheduling"`
	WebSocket struct {
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"SCHEDULING_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8083"
	cfg.Redis.HoldTTL = 10 * time.Second
	cfg.Data.ChargingPatternsCSV = "data/ev_charging_patterns.csv"
	cfg.Scheduling.TimeZone = "UTC"
	cfg.Scheduling.OptimizeAttempts = 3
	cfg.WebSocket.WriteTimeout = 10 * time.Second

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
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(c.Data.ChargingPatternsCSV) == "" {
		return errors.New("config: charging patterns csv required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8083"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Location resolves the scheduling time zone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Scheduling.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", name, err)
	}
	return loc, nil
}

// RedisEnabled reports whether slot holds are configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// SlotHoldTTL returns the hold ttl.
func (c *Config) SlotHoldTTL() time.Duration {
	if c.Redis.HoldTTL <= 0 {
		return 10 * time.Second
	}
	return c.Redis.HoldTTL
}
