package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/http"
	authrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/repository"
	authservice "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/service"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/config"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/db"
	commonhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/http"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/httpclient"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/messaging"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/integration/sap"
	userhttp "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/http"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
	userservice "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/service"
)

type AuthApp struct {
	Config      config.AuthConfig
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	Events      *messaging.RabbitMQClient
	RateLimiter *commonhttp.RateLimiter
	Handler     http.Handler
}

type NotifierApp struct {
	Config config.NotifierConfig
	Log    *logger.Logger
	Events *messaging.RabbitMQClient
}

func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	log, err := initializeLogger("auth")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, log, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	app := &AuthApp{Config: cfg, Log: log, Pool: pool}
	app.Events = connectEvents(log, cfg.RabbitMQURL, cfg.UserEventsQueue)

	clk := clock.NewRealClock()
	ids := commoncrypto.NewUUIDGenerator()
	hasher := commoncrypto.NewBcryptHasher(constants.BcryptCost)
	accessSigner := jwtverify.NewSigner(cfg.JWTSecret, ids, clk)
	refreshSigner := jwtverify.NewSigner(cfg.JWTRefreshSecret, ids, clk)

	users := userrepo.NewPgRepository(pool)
	directory := userservice.NewUserService(users, hasher, ids, clk, log).
		WithExternalAPI(httpclient.New(httpclient.Config{
			BaseURL: cfg.UserAPIBase,
			APIKey:  cfg.APIKey,
			Target:  "user_api",
		}, log))
	if app.Events != nil {
		directory.WithEvents(app.Events, cfg.UserEventsQueue)
	}

	auth, err := authservice.NewAuthService(authservice.AuthServiceDeps{
		Users:         directory,
		RefreshTokens: authrepo.NewPgRefreshTokenRepository(pool, log),
		Hasher:        hasher,
		AccessSigner:  accessSigner,
		RefreshSigner: refreshSigner,
		Clock:         clk,
		Log:           log,
	}, authservice.AuthServiceConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	routes := Routes{
		APIPrefix: cfg.APIPrefix,
		Health:    commonhttp.HealthHandler(pool, log),
		Metrics:   promhttp.Handler(),
		Auth: authhttp.NewHandler(auth, accessSigner, authhttp.Config{
			APIPrefix:      cfg.APIPrefix,
			RequestTimeout: cfg.RequestTimeout,
		}, log),
		Users: userhttp.NewHandler(directory, accessSigner, userhttp.Config{
			APIPrefix:      cfg.APIPrefix,
			APIKey:         cfg.SAPIntegrationAPIKey,
			RequestTimeout: cfg.RequestTimeout,
		}, log),
		SAP: sap.NewHandler(sap.NewService(ids, log), sap.Config{
			APIPrefix:      cfg.APIPrefix,
			APIKey:         cfg.SAPIntegrationAPIKey,
			RequestTimeout: cfg.RequestTimeout,
		}, log),
	}

	app.RateLimiter = commonhttp.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	limited := app.RateLimiter.Middleware("/health", "/metrics")(routes.Mux())
	app.Handler = commonhttp.BuildBaseHandler("auth", log, limited)

	return app, nil
}

// Close releases everything NewAuthApp opened. It is safe to call on a
// partially built app.
func (a *AuthApp) Close() {
	if a.RateLimiter != nil {
		a.RateLimiter.Stop()
	}
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Log.Warnf("failed to close rabbitmq client: %v", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func NewNotifierApp() (*NotifierApp, error) {
	log, err := initializeLogger("notifier")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadNotifierConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	events, err := messaging.NewClient(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	if err := events.DeclareQueue(cfg.UserEventsQueue); err != nil {
		_ = events.Close()
		return nil, err
	}

	return &NotifierApp{Config: cfg, Log: log, Events: events}, nil
}

// connectEvents returns nil when no broker is configured or reachable.
// Registration keeps working without events.
func connectEvents(log *logger.Logger, url, queue string) *messaging.RabbitMQClient {
	if url == "" {
		log.Info("RABBITMQ_URL not set, user events disabled")
		return nil
	}

	client, err := messaging.NewClient(url)
	if err != nil {
		log.Warnf("user events disabled: %v", err)
		return nil
	}
	if err := client.DeclareQueue(queue); err != nil {
		log.Warnf("user events disabled: %v", err)
		_ = client.Close()
		return nil
	}

	log.Infof("publishing user events to %s", queue)
	return client
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
