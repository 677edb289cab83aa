package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultAccessTTLMin    = 60 * 24 // 1 day
	defaultRefreshTTLDays  = 7
	defaultRateLimitPerSec = 20
	defaultRateLimitBurst  = 40
	defaultMaxBodyBytes    = 1 << 20

	minSecretLength = 32
)

// Config carries every tunable the process needs. It is built once at
// startup and injected into services; nothing reads the environment later.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SuperuserUsername string
	SuperuserEmail    string
	SuperuserPassword string
	SuperuserRole     string

	RateLimitPerSecond int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// Load reads configuration from a .env file (when present) and the process
// environment. Environment variables win over .env values.
func Load() (*Config, error) {
	// Best effort: running without a .env file is the normal production case.
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTPAddr:    getenv("REGISTRA_HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL: os.Getenv("REGISTRA_PG_DSN"),

		SecretKey: os.Getenv("REGISTRA_SECRET_KEY"),

		SuperuserUsername: getenv("REGISTRA_SUPERUSER_USERNAME", "super_admin"),
		SuperuserEmail:    getenv("REGISTRA_SUPERUSER_EMAIL", "super_admin@registra.org"),
		SuperuserPassword: os.Getenv("REGISTRA_SUPERUSER_PASSWORD"),
		SuperuserRole:     getenv("REGISTRA_SUPERUSER_ROLE", "super_admin"),

		MaxBodyBytes: defaultMaxBodyBytes,
	}

	accessMinutes, err := getenvInt("REGISTRA_ACCESS_TTL_MINUTES", defaultAccessTTLMin)
	if err != nil {
		return nil, err
	}
	refreshDays, err := getenvInt("REGISTRA_REFRESH_TTL_DAYS", defaultRefreshTTLDays)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(accessMinutes) * time.Minute
	cfg.RefreshTokenTTL = time.Duration(refreshDays) * 24 * time.Hour

	cfg.RateLimitPerSecond, err = getenvInt("REGISTRA_RATE_LIMIT_PER_SECOND", defaultRateLimitPerSec)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst, err = getenvInt("REGISTRA_RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		return errors.New("config: REGISTRA_SECRET_KEY is required")
	}
	if len(c.SecretKey) < minSecretLength {
		return fmt.Errorf("config: REGISTRA_SECRET_KEY must be at least %d bytes", minSecretLength)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return v, nil
}
