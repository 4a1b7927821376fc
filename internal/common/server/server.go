package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

// ShutdownHook releases a resource once the server has stopped taking requests.
type ShutdownHook func(ctx context.Context) error

func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
		MaxHeaderBytes:    constants.ServerMaxHeaderBytes,
	}
}

// Run serves until ctx ends or SIGINT/SIGTERM arrives, then shuts down.
// It returns an error only when the listener fails.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			Shutdown(server, log, serviceName, hooks)
			return fmt.Errorf("%s service: %w", serviceName, err)
		}
	case <-ctx.Done():
		log.Infof("shutting down %s service...", serviceName)
	}

	Shutdown(server, log, serviceName, hooks)
	return nil
}

// Shutdown drains in-flight requests for at most DrainTimeout, closing what
// is left, and then runs hooks in order.
func Shutdown(server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) {
	server.SetKeepAlivesEnabled(false)

	drainCtx, drainCancel := context.WithTimeout(context.Background(), constants.DrainTimeout)
	defer drainCancel()

	if err := server.Shutdown(drainCtx); err != nil {
		log.Warnf("%s service: drain incomplete, closing remaining connections: %v", serviceName, err)
		_ = server.Close()
	} else {
		log.Infof("%s service: all requests drained", serviceName)
	}

	hookCtx, hookCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer hookCancel()

	for i, hook := range hooks {
		if err := hook(hookCtx); err != nil {
			log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
		}
	}

	log.Infof("%s service stopped", serviceName)
}
