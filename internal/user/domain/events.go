package domain

import "time"

// RegisteredEvent is published on the user events queue after a user is created.
type RegisteredEvent struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	SapID      string    `json:"sapId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewRegisteredEvent(u User, at time.Time) RegisteredEvent {
	return RegisteredEvent{
		UserID:     string(u.ID),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		SapID:      u.SapID,
		OccurredAt: at,
	}
}
