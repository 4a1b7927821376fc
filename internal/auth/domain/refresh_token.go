package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

// RefreshToken is a persisted refresh token. Token is the signed JWT handed
// to the client; only its hash is stored.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	// User is filled when the record is loaded by token.
	User userdomain.Profile
}

func (t RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// HashToken is the storage key for a token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// AuthResult is returned by login and refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         userdomain.Profile
}
