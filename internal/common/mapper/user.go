package mapper

import (
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/dto"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

func ProfileToDTO(p userdomain.Profile) dto.Profile {
	return dto.Profile{
		ID:        string(p.ID),
		Email:     p.Email,
		Name:      p.Name,
		Role:      string(p.Role),
		IsActive:  p.IsActive,
		SapID:     p.SapID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func UserToDTO(u userdomain.User) dto.Profile {
	return ProfileToDTO(u.Profile())
}

// ProfileToEventDTO is the body sent to the external user API.
func ProfileToEventDTO(p userdomain.Profile) map[string]any {
	return map[string]any{
		"id":       string(p.ID),
		"email":    p.Email,
		"name":     p.Name,
		"role":     string(p.Role),
		"isActive": p.IsActive,
		"sapId":    p.SapID,
	}
}
