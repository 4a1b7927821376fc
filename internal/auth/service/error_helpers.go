package service

import (
	"errors"
	"fmt"

	authrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/repository"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
)

// refreshReason names why a presented refresh token was refused. It is
// logged and counted but never returned to the caller.
type refreshReason string

const (
	reasonVerificationFailed refreshReason = "verification_failed"
	reasonTokenExpired       refreshReason = "token_expired"
	reasonNotFound           refreshReason = "not_found"
	reasonRecordExpired      refreshReason = "record_expired"
	reasonAlreadyRotated     refreshReason = "already_rotated"
	reasonStoreFailure       refreshReason = "store_failure"
	reasonStoreUnavailable   refreshReason = "store_unavailable"
	reasonIssueFailed        refreshReason = "issue_failed"
)

type refreshFailure struct {
	reason refreshReason
	cause  error
}

func (f *refreshFailure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("refresh rejected (%s): %v", f.reason, f.cause)
	}
	return fmt.Sprintf("refresh rejected (%s)", f.reason)
}

func (f *refreshFailure) Unwrap() error {
	return f.cause
}

func rejectRefresh(reason refreshReason, cause error) error {
	return &refreshFailure{reason: reason, cause: cause}
}

// internal reports whether the refusal came from our own dependencies
// rather than from the presented token.
func (f *refreshFailure) internal() bool {
	switch f.reason {
	case reasonStoreFailure, reasonStoreUnavailable, reasonIssueFailed:
		return true
	}
	return false
}

// storeRefusal tags a refresh-store error. A miss means the token is gone.
func storeRefusal(miss refreshReason, err error) error {
	switch {
	case errors.Is(err, authrepo.ErrRefreshTokenNotFound):
		return rejectRefresh(miss, err)
	case errors.Is(err, commonerrors.ErrCircuitOpen):
		return rejectRefresh(reasonStoreUnavailable, err)
	default:
		return rejectRefresh(reasonStoreFailure, err)
	}
}

// handleStoreError turns an infrastructure failure into a domain error.
func handleStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

// isStoreFailure keeps expected misses from opening the database breaker.
func isStoreFailure(err error) bool {
	return err != nil && !errors.Is(err, authrepo.ErrRefreshTokenNotFound)
}
