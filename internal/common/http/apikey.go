package http

import (
	"crypto/subtle"
	"net/http"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

const APIKeyHeader = "X-API-KEY"

// APIKeyMiddleware admits requests whose X-API-KEY header equals expected.
func APIKeyMiddleware(expected string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(APIKeyHeader)
			if expected == "" || subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "api_key_rejected",
				}).Warn("request rejected: invalid api key")
				err := commonerrors.ErrInvalidAPIKey
				WriteErrorEnvelope(w, err.HTTPStatus(), err.Code(), err.Message(), nil, TraceIDFromContext(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
