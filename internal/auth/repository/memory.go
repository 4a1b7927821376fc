package repository

import (
	"context"
	"errors"
	"sync"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

// UserLookup resolves the owner of a record, standing in for the users join.
type UserLookup interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

// MemoryRefreshTokenRepository keeps records in process. Every transition
// happens under one mutex, so Rotate has the same outcome as the
// transactional version.
type MemoryRefreshTokenRepository struct {
	mu      sync.Mutex
	records map[string]authdomain.RefreshToken
	users   UserLookup
}

func NewMemoryRefreshTokenRepository(users UserLookup) *MemoryRefreshTokenRepository {
	return &MemoryRefreshTokenRepository{
		records: make(map[string]authdomain.RefreshToken),
		users:   users,
	}
}

func (r *MemoryRefreshTokenRepository) Insert(_ context.Context, token authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := authdomain.HashToken(token.Token)
	if _, ok := r.records[key]; ok {
		return errors.New("refresh token already exists")
	}
	r.records[key] = stripUser(token)
	return nil
}

func (r *MemoryRefreshTokenRepository) FindByToken(ctx context.Context, token string) (authdomain.RefreshToken, error) {
	r.mu.Lock()
	rec, ok := r.records[authdomain.HashToken(token)]
	r.mu.Unlock()
	if !ok {
		return authdomain.RefreshToken{}, ErrRefreshTokenNotFound
	}

	if r.users != nil {
		user, err := r.users.FindByID(ctx, userdomain.ID(rec.UserID))
		if err != nil {
			return authdomain.RefreshToken{}, ErrRefreshTokenNotFound
		}
		rec.User = user.Profile()
	}
	return rec, nil
}

func (r *MemoryRefreshTokenRepository) DeleteByToken(_ context.Context, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := authdomain.HashToken(token)
	if _, ok := r.records[key]; !ok {
		return 0, nil
	}
	delete(r.records, key)
	return 1, nil
}

func (r *MemoryRefreshTokenRepository) DeleteByUserAndToken(_ context.Context, userID, token string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := authdomain.HashToken(token)
	rec, ok := r.records[key]
	if !ok || rec.UserID != userID {
		return 0, nil
	}
	delete(r.records, key)
	return 1, nil
}

func (r *MemoryRefreshTokenRepository) Rotate(_ context.Context, oldToken string, next authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oldKey := authdomain.HashToken(oldToken)
	if _, ok := r.records[oldKey]; !ok {
		return ErrRefreshTokenNotFound
	}
	nextKey := authdomain.HashToken(next.Token)
	if _, ok := r.records[nextKey]; ok {
		return errors.New("refresh token already exists")
	}

	delete(r.records, oldKey)
	r.records[nextKey] = stripUser(next)
	return nil
}

// Len reports how many records are stored.
func (r *MemoryRefreshTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Has reports whether a record exists for token.
func (r *MemoryRefreshTokenRepository) Has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[authdomain.HashToken(token)]
	return ok
}

func stripUser(t authdomain.RefreshToken) authdomain.RefreshToken {
	t.User = userdomain.Profile{}
	return t
}
