package service

import (
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/validation"
)

// RegisterInput is the shape accepted by Register.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72,password_strength"`
	Name     string `json:"name" validate:"required,max=100"`
}

func validateRegistration(input RegisterInput) error {
	return validation.Struct(input)
}
