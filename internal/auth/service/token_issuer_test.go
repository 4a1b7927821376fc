package service

import (
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
)

func TestTokenIssuer_Issue(t *testing.T) {
	clk := clock.NewMockClock(testStart)
	ids := commoncrypto.NewUUIDGenerator()
	access := jwtverify.NewSigner(testAccessSecret, ids, clk)
	refresh := jwtverify.NewSigner(testRefreshSecret, ids, clk)
	issuer := NewTokenIssuer(access, refresh, 15*time.Minute, 7*24*time.Hour, clk)

	claims := jwtverify.Claims{UserID: "user-1", Email: testEmail, Role: "ADMIN"}
	pair, err := issuer.Issue(claims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !pair.issuedAt.Equal(testStart) || !pair.refreshExpiresAt.Equal(testStart.Add(7*24*time.Hour)) {
		t.Errorf("unexpected times: issued %v, expires %v", pair.issuedAt, pair.refreshExpiresAt)
	}

	got, err := access.Verify(pair.accessToken)
	if err != nil || got != claims {
		t.Fatalf("access token: %+v, %v", got, err)
	}
	got, err = issuer.VerifyRefresh(pair.refreshToken)
	if err != nil || got != claims {
		t.Fatalf("refresh token: %+v, %v", got, err)
	}
	if _, err := issuer.VerifyRefresh(pair.accessToken); err == nil {
		t.Fatal("access token must not pass as a refresh token")
	}

	clk.Advance(16 * time.Minute)
	if _, err := access.Verify(pair.accessToken); !errors.Is(err, commonerrors.ErrTokenExpired) {
		t.Fatalf("expected access token to expire, got %v", err)
	}
	if _, err := issuer.VerifyRefresh(pair.refreshToken); err != nil {
		t.Fatalf("refresh token should outlive the access token: %v", err)
	}
}
