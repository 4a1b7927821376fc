package domain

import "time"

type ID string

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           ID
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	IsActive     bool
	SapID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is a user without credentials. It is the only user shape that
// leaves the service.
type Profile struct {
	ID        ID
	Email     string
	Name      string
	Role      Role
	IsActive  bool
	SapID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		SapID:     u.SapID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Registration is the input for creating a user. An empty Role means USER.
type Registration struct {
	Email    string
	Password string
	Name     string
	Role     Role
}
