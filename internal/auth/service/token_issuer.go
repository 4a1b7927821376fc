package service

import (
	"time"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
)

type tokenPair struct {
	accessToken      string
	refreshToken     string
	refreshExpiresAt time.Time
	issuedAt         time.Time
}

// TokenIssuer signs access tokens and refresh tokens with their own secrets
// and lifetimes.
type TokenIssuer struct {
	access     jwtverify.TokenSigner
	refresh    jwtverify.TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

func NewTokenIssuer(
	access jwtverify.TokenSigner,
	refresh jwtverify.TokenSigner,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	clk clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		access:     access,
		refresh:    refresh,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clk,
	}
}

func (ti *TokenIssuer) Issue(claims jwtverify.Claims) (tokenPair, error) {
	now := ti.clock.Now()

	accessToken, err := ti.access.Sign(claims, ti.accessTTL)
	if err != nil {
		return tokenPair{}, err
	}
	incrementAccessTokensIssued()

	refreshToken, err := ti.refresh.Sign(claims, ti.refreshTTL)
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{
		accessToken:      accessToken,
		refreshToken:     refreshToken,
		refreshExpiresAt: now.Add(ti.refreshTTL),
		issuedAt:         now,
	}, nil
}

func (ti *TokenIssuer) VerifyRefresh(token string) (jwtverify.Claims, error) {
	return ti.refresh.Verify(token)
}
