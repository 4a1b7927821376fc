package constants

import "time"

const (
	JWTSecretMinLength = 32
	BcryptCost         = 10

	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort        = "8081"
	DefaultAPIPrefix       = "/api/v1"
	DefaultAccessTokenTTL  = "15m"
	DefaultRefreshTokenTTL = "7d"
	DefaultRequestTimeout  = 5 * time.Second

	DefaultSAPIntegrationAPIKey = "sap-simulated-key"
	DefaultUserEventsQueue      = "user.registered"

	DefaultRateLimitWindow = 60 * time.Second
	DefaultRateLimitMax    = 100
	RateLimitCleanupPeriod = 5 * time.Minute

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second
	DBBreakerThreshold    = 5
	DBBreakerResetAfter   = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerMaxHeaderBytes    = 1 << 20

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	OutboundRequestTimeout    = 5 * time.Second
	OutboundBreakerThreshold  = 5
	OutboundBreakerResetAfter = 30 * time.Second
	MessagingPublishTimeout   = 3 * time.Second
	MessagingConsumerPrefetch = 1

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
