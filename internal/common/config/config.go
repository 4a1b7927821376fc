package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/duration"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
)

type AuthConfig struct {
	HTTPPort       string
	APIPrefix      string
	DatabaseURL    string
	RunMigrations  bool
	RequestTimeout time.Duration

	JWTSecret        string
	JWTRefreshSecret string
	// Lifetimes keep their compact form ("15m", "7d") and are validated at load.
	AccessTokenTTL  string
	RefreshTokenTTL string

	RabbitMQURL     string
	UserEventsQueue string

	UserAPIBase          string
	APIKey               string
	SAPIntegrationAPIKey string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

type NotifierConfig struct {
	RabbitMQURL     string
	UserEventsQueue string
}

func LoadAuthConfig() (AuthConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	jwtRefreshSecret, err := mustEnv("JWT_REFRESH_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	if err := validateJWTSecrets(jwtSecret, jwtRefreshSecret); err != nil {
		return AuthConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AuthConfig{}, err
	}

	accessTTL := getEnv("JWT_EXPIRES_IN", constants.DefaultAccessTokenTTL)
	if _, err := duration.Parse(accessTTL); err != nil {
		return AuthConfig{}, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}

	refreshTTL := getEnv("JWT_REFRESH_EXPIRES_IN", constants.DefaultRefreshTokenTTL)
	if _, err := duration.Parse(refreshTTL); err != nil {
		return AuthConfig{}, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err)
	}

	return AuthConfig{
		HTTPPort:             getEnv("PORT", constants.DefaultHTTPPort),
		APIPrefix:            normalizePrefix(getEnv("API_PREFIX", constants.DefaultAPIPrefix)),
		DatabaseURL:          databaseURL,
		RunMigrations:        getBoolEnv("RUN_MIGRATIONS", true),
		RequestTimeout:       getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		JWTSecret:            jwtSecret,
		JWTRefreshSecret:     jwtRefreshSecret,
		AccessTokenTTL:       accessTTL,
		RefreshTokenTTL:      refreshTTL,
		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		UserEventsQueue:      getEnv("USER_EVENTS_QUEUE", constants.DefaultUserEventsQueue),
		UserAPIBase:          strings.TrimRight(getEnv("USER_API_BASE", ""), "/"),
		APIKey:               getEnv("API_KEY", ""),
		SAPIntegrationAPIKey: getEnv("SAP_INTEGRATION_API_KEY", constants.DefaultSAPIntegrationAPIKey),
		RateLimitWindow:      getDurationEnv("RATE_LIMIT_TTL", constants.DefaultRateLimitWindow),
		RateLimitMax:         getIntEnv("RATE_LIMIT_MAX", constants.DefaultRateLimitMax),
	}, nil
}

func LoadNotifierConfig() (NotifierConfig, error) {
	url, err := mustEnv("RABBITMQ_URL")
	if err != nil {
		return NotifierConfig{}, err
	}

	return NotifierConfig{
		RabbitMQURL:     url,
		UserEventsQueue: getEnv("USER_EVENTS_QUEUE", constants.DefaultUserEventsQueue),
	}, nil
}

func validateJWTSecrets(access, refresh string) error {
	if len(access) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("JWT_SECRET: got %d bytes", len(access)))
	}
	if len(refresh) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("JWT_REFRESH_SECRET: got %d bytes", len(refresh)))
	}
	if access == refresh {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET are equal"))
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s is not set", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	// Bare integers are seconds, as in RATE_LIMIT_TTL=60.
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if d, err := duration.Parse(v); err == nil {
		return d
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
