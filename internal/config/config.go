package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"datavisapi/internal/pkg/authcrypt"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultAccessTokenTTL   = "15m"
	defaultRefreshTokenTTL  = "168h"
	defaultEmailHashVersion = "1"
	defaultKDFIterations    = "200000"

	// base64 of "change-me-jwt-secret"; rejected outside dev.
	defaultJWTSecret = "Y2hhbmdlLW1lLWp3dC1zZWNyZXQ="
)

// Config is loaded once at startup and passed explicitly to components.
// Nothing here mutates after Load returns.
type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret      []byte
	AccessTokenTTL time.Duration

	RefreshTokenTTL time.Duration

	EmailHashSalt    string
	EmailHashVersion int
	KDFIterations    int

	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	rawSecret := strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	secret, err := base64.StdEncoding.DecodeString(rawSecret)
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET must be valid base64: %w", err)
	}
	cfg.JWTSecret = secret

	cfg.AccessTokenTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg.RefreshTokenTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg.EmailHashSalt = strings.TrimSpace(getEnv("EMAIL_HASH_SALT", authcrypt.DefaultEmailSalt))

	cfg.EmailHashVersion, err = parseIntEnv("EMAIL_HASH_VERSION", defaultEmailHashVersion)
	if err != nil {
		return nil, err
	}

	cfg.KDFIterations, err = parseIntEnv("PBKDF2_ITERATIONS", defaultKDFIterations)
	if err != nil {
		return nil, err
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg, rawSecret); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config, rawSecret string) error {
	if len(cfg.JWTSecret) == 0 {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.EmailHashSalt == "" {
		return fmt.Errorf("EMAIL_HASH_SALT must not be empty")
	}
	if cfg.EmailHashVersion <= 0 {
		return fmt.Errorf("EMAIL_HASH_VERSION must be >= 1")
	}
	if cfg.KDFIterations < 1000 {
		return fmt.Errorf("PBKDF2_ITERATIONS must be >= 1000")
	}

	if isProdLike(cfg.AppEnv) && rawSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
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
