package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
)

var (
	ErrDuplicateEmail = commonerrors.NewDomainError(
		"DUPLICATE_EMAIL",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"email is already registered",
	).WithDetails(map[string]any{"email": "already registered"})

	ErrInvalidRole = commonerrors.NewDomainError(
		"INVALID_ROLE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"role must be USER or ADMIN",
	)
)
