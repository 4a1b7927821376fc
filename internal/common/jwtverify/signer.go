package jwtverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
)

// Claims is the identity carried by access and refresh tokens.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type TokenSigner interface {
	Sign(claims Claims, lifetime time.Duration) (string, error)
	Verify(token string) (Claims, error)
}

// Signer issues and verifies HS256 tokens with a single secret. Access and
// refresh tokens use separate instances.
type Signer struct {
	secret      []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewSigner(secret string, idGenerator commoncrypto.IDGenerator, clk clock.Clock) *Signer {
	return &Signer{
		secret:      []byte(secret),
		idGenerator: idGenerator,
		clock:       clk,
	}
}

func (s *Signer) Sign(claims Claims, lifetime time.Duration) (string, error) {
	if claims.UserID == "" {
		return "", commonerrors.ErrMissingTokenClaims
	}

	// jti keeps two tokens signed for the same user in the same second distinct.
	jti, err := s.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})

	return t.SignedString(s.secret)
}

func (s *Signer) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := s.verify(tokenString)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}
	return claims, nil
}

func (s *Signer) verify(tokenString string) (Claims, error) {
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&parsed,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, commonerrors.ErrInvalidTokenSigningMethod
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, commonerrors.ErrTokenExpired.WithCause(err)
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	if parsed.Subject == "" || parsed.Email == "" || parsed.Role == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	return Claims{
		UserID: parsed.Subject,
		Email:  parsed.Email,
		Role:   parsed.Role,
	}, nil
}
