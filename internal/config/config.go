package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort               = "8080"
	defaultJWTTTL             = "24h"
	defaultMaxBookingDuration = "8h"
	defaultRetryAttempts      = "3"
	defaultSweepInterval      = "1m"
	defaultAnalyticsCacheTTL  = "5m"
	defaultJWTSecret          = "change-me-jwt-secret"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// Optional collaborators; empty address disables the integration.
	RedisAddr string
	AMQPURL   string

	// Origin allowed to open websocket connections; empty admits any.
	WSAllowedOrigin string

	// Booking engine policy knobs.
	MaxBookingDuration   time.Duration
	BookingRetryAttempts int

	SweepInterval     time.Duration
	AnalyticsCacheTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.AMQPURL = strings.TrimSpace(os.Getenv("AMQP_URL"))
	cfg.WSAllowedOrigin = strings.TrimSpace(os.Getenv("WS_ALLOWED_ORIGIN"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.MaxBookingDuration, err = parseDurationEnv("BOOKING_MAX_DURATION", defaultMaxBookingDuration); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.AnalyticsCacheTTL, err = parseDurationEnv("ANALYTICS_CACHE_TTL", defaultAnalyticsCacheTTL); err != nil {
		return nil, err
	}
	if cfg.BookingRetryAttempts, err = parseIntEnv("BOOKING_RETRY_ATTEMPTS", defaultRetryAttempts); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.MaxBookingDuration <= 0 {
		return fmt.Errorf("BOOKING_MAX_DURATION must be > 0")
	}
	if cfg.BookingRetryAttempts < 1 {
		return fmt.Errorf("BOOKING_RETRY_ATTEMPTS must be >= 1")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
