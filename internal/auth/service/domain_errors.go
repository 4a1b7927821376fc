package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	userservice "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/service"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrAccountInactive = commonerrors.NewDomainError(
		"ACCOUNT_INACTIVE",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"account is inactive",
	)

	ErrInvalidRefreshToken = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid refresh token",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	// ErrDuplicateEmail is raised by the user directory and passed through.
	ErrDuplicateEmail = userservice.ErrDuplicateEmail
)
