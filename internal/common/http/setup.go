package http

import (
	"net/http"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware shared by every service:
// security headers, panic recovery, trace ids, body limits and metrics.
func BuildBaseHandler(serviceName string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(serviceName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(TraceIDMiddleware(recovery(maxRequestSize(metrics.Wrap(handler)))))
}
