package sap

import (
	"context"

	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
)

// CreateUserRequest is what the simulated SAP endpoint accepts.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// CreatedUser echoes the request with the assigned sap id. The password is
// never echoed.
type CreatedUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	SapID string `json:"sapId"`
}

// Service simulates provisioning in SAP: nothing is stored, each call gets
// a fresh sap id.
type Service struct {
	ids commoncrypto.IDGenerator
	log *logger.Logger
}

func NewService(ids commoncrypto.IDGenerator, log *logger.Logger) *Service {
	return &Service{ids: ids, log: log}
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (CreatedUser, error) {
	sapID, err := s.ids.NewID()
	if err != nil {
		return CreatedUser{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"sap_id": sapID,
		"action": "sap_user_created",
	}).Info("sap user created")

	return CreatedUser{
		Email: req.Email,
		Name:  req.Name,
		SapID: sapID,
	}, nil
}
