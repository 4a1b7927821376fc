package service

import (
	"context"
	"errors"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

// RefreshTokens exchanges a refresh token for a new access and refresh
// token. Every failure, including store and signer errors, surfaces as
// ErrInvalidRefreshToken.
func (s *AuthService) RefreshTokens(ctx context.Context, presented string) (authdomain.AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "refresh_token_attempt",
	}).Info("refresh token attempt")

	result, err := s.rotate(ctx, presented)
	if err != nil {
		var rejected *refreshFailure
		if !errors.As(err, &rejected) {
			rejected = &refreshFailure{reason: reasonStoreFailure, cause: err}
		}
		entry := s.log.WithFields(ctx, logger.Fields{
			"reason": string(rejected.reason),
			"action": "refresh_token_rejected",
		})
		if rejected.internal() {
			entry.Errorf("refresh token failed: %v", rejected)
		} else {
			entry.Warnf("refresh token rejected: %v", rejected)
		}
		incrementRefreshTokensRejected(rejected.reason)
		return authdomain.AuthResult{}, ErrInvalidRefreshToken
	}

	incrementRefreshTokensUsed()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(result.User.ID),
		"action":  "refresh_token_success",
	}).Info("refresh token success")

	return result, nil
}

func (s *AuthService) rotate(ctx context.Context, presented string) (authdomain.AuthResult, error) {
	if presented == "" {
		return authdomain.AuthResult{}, rejectRefresh(reasonVerificationFailed, errors.New("empty token"))
	}

	claims, err := s.issuer.VerifyRefresh(presented)
	if err != nil {
		if errors.Is(err, commonerrors.ErrTokenExpired) {
			return authdomain.AuthResult{}, rejectRefresh(reasonTokenExpired, err)
		}
		return authdomain.AuthResult{}, rejectRefresh(reasonVerificationFailed, err)
	}

	var stored authdomain.RefreshToken
	err = s.dbBreaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		stored, findErr = s.tokens.FindByToken(ctx, presented)
		return findErr
	})
	if err != nil {
		return authdomain.AuthResult{}, storeRefusal(reasonNotFound, err)
	}

	if stored.Expired(s.clock.Now()) {
		s.purge(ctx, presented)
		return authdomain.AuthResult{}, rejectRefresh(reasonRecordExpired, nil)
	}

	// The new pair carries the identity already signed into the presented
	// token; the directory is not consulted again.
	pair, err := s.issuer.Issue(claims)
	if err != nil {
		return authdomain.AuthResult{}, rejectRefresh(reasonIssueFailed, err)
	}

	next := authdomain.RefreshToken{
		Token:     pair.refreshToken,
		UserID:    claims.UserID,
		ExpiresAt: pair.refreshExpiresAt,
		CreatedAt: pair.issuedAt,
	}
	err = s.dbBreaker.Call(ctx, func(ctx context.Context) error {
		return s.tokens.Rotate(ctx, presented, next)
	})
	if err != nil {
		return authdomain.AuthResult{}, storeRefusal(reasonAlreadyRotated, err)
	}

	incrementRefreshTokensIssued()

	return authdomain.AuthResult{
		AccessToken:  pair.accessToken,
		RefreshToken: pair.refreshToken,
		User:         stored.User,
	}, nil
}

// purge drops an expired record. Failures are logged; the caller is
// rejected either way.
func (s *AuthService) purge(ctx context.Context, token string) {
	var deleted int64
	err := s.dbBreaker.Call(ctx, func(ctx context.Context) error {
		n, err := s.tokens.DeleteByToken(ctx, token)
		deleted = n
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_delete_expired_failed",
		}).Errorf("failed to delete expired refresh token: %v", err)
		return
	}
	if deleted > 0 {
		incrementRefreshTokensExpired()
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_expired_deleted",
		}).Info("expired refresh token deleted")
	}
}
