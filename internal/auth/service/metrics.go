package service

import (
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
)

func incrementRefreshTokensIssued() {
	metrics.RefreshTokensIssued.Inc()
}

func incrementRefreshTokensUsed() {
	metrics.RefreshTokensUsed.Inc()
}

func incrementRefreshTokensRevoked() {
	metrics.RefreshTokensRevoked.Inc()
}

func incrementRefreshTokensExpired() {
	metrics.RefreshTokensExpired.Inc()
}

func incrementRefreshTokensRejected(reason refreshReason) {
	metrics.RefreshTokensRejected.WithLabelValues(string(reason)).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementLoginAttempts(outcome string) {
	metrics.LoginAttempts.WithLabelValues(outcome).Inc()
}
