package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

func TestUserToDTO_DropsPasswordHash(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := userdomain.User{
		ID:           "u-1",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		Name:         "Jane",
		Role:         userdomain.RoleAdmin,
		IsActive:     true,
		SapID:        "sap-1",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	got := UserToDTO(u)

	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "ADMIN", got.Role)
	assert.Equal(t, "sap-1", got.SapID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.IsActive)

	body := ProfileToEventDTO(u.Profile())
	assert.NotContains(t, body, "passwordHash")
	assert.Equal(t, "sap-1", body["sapId"])
}
