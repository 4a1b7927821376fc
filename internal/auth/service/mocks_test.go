package service

import (
	"context"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
)

type mockRefreshTokenRepository struct {
	insertFunc               func(ctx context.Context, token authdomain.RefreshToken) error
	findByTokenFunc          func(ctx context.Context, token string) (authdomain.RefreshToken, error)
	deleteByTokenFunc        func(ctx context.Context, token string) (int64, error)
	deleteByUserAndTokenFunc func(ctx context.Context, userID, token string) (int64, error)
	rotateFunc               func(ctx context.Context, oldToken string, next authdomain.RefreshToken) error
}

func (m *mockRefreshTokenRepository) Insert(ctx context.Context, token authdomain.RefreshToken) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, token)
	}
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (authdomain.RefreshToken, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return authdomain.RefreshToken{}, nil
}

func (m *mockRefreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return 0, nil
}

func (m *mockRefreshTokenRepository) DeleteByUserAndToken(ctx context.Context, userID, token string) (int64, error) {
	if m.deleteByUserAndTokenFunc != nil {
		return m.deleteByUserAndTokenFunc(ctx, userID, token)
	}
	return 0, nil
}

func (m *mockRefreshTokenRepository) Rotate(ctx context.Context, oldToken string, next authdomain.RefreshToken) error {
	if m.rotateFunc != nil {
		return m.rotateFunc(ctx, oldToken, next)
	}
	return nil
}
