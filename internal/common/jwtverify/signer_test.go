package jwtverify

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

const (
	accessSecret  = "access-secret-access-secret-access-secret"
	refreshSecret = "refresh-secret-refresh-secret-refresh-secret"
)

var testClaims = Claims{UserID: "user-1", Email: "ann@example.com", Role: "USER"}

func newTestSigner(secret string, clk clock.Clock) *Signer {
	return NewSigner(secret, commoncrypto.NewUUIDGenerator(), clk)
}

func TestSigner_SignVerifyRoundTrip(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewRealClock())

	token, err := s.Sign(testClaims, time.Minute)
	require.NoError(t, err)

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testClaims, got)
}

func TestSigner_TokensAreUnique(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewMockClock(time.Now()))

	a, err := s.Sign(testClaims, time.Hour)
	require.NoError(t, err)
	b, err := s.Sign(testClaims, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSigner_RejectsOtherSecret(t *testing.T) {
	clk := clock.NewRealClock()
	access := newTestSigner(accessSecret, clk)
	refresh := newTestSigner(refreshSecret, clk)

	token, err := access.Sign(testClaims, time.Minute)
	require.NoError(t, err)

	_, err = refresh.Verify(token)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidToken)
}

func TestSigner_Expired(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	s := newTestSigner(accessSecret, clk)

	token, err := s.Sign(testClaims, time.Minute)
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, commonerrors.ErrTokenExpired)
}

func TestSigner_RejectsTamperedAndMalformed(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewRealClock())

	token, err := s.Sign(testClaims, time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(token + "x")
	assert.ErrorIs(t, err, commonerrors.ErrInvalidToken)

	_, err = s.Verify("not-a-jwt")
	assert.ErrorIs(t, err, commonerrors.ErrInvalidToken)
}

func TestSigner_RejectsOtherAlgorithm(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewRealClock())

	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ann@example.com",
		"role":  "ADMIN",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte(accessSecret))
	require.NoError(t, err)

	_, err = s.Verify(raw)
	assert.Error(t, err)
}

func TestSigner_RequiresSubject(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewRealClock())

	_, err := s.Sign(Claims{Email: "a@b.c", Role: "USER"}, time.Minute)
	assert.ErrorIs(t, err, commonerrors.ErrMissingTokenClaims)
}

type failingIDs struct{}

func (failingIDs) NewID() (string, error) { return "", errors.New("entropy exhausted") }

func TestSigner_IDGeneratorFailure(t *testing.T) {
	s := NewSigner(accessSecret, failingIDs{}, clock.NewRealClock())

	_, err := s.Sign(testClaims, time.Minute)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	s := newTestSigner(accessSecret, clock.NewRealClock())
	log := logger.NewWriter(io.Discard, "test", "info")

	var seen Claims
	h := Middleware(s, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := s.Sign(testClaims, time.Minute)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testClaims, seen)
}
