package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/db"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
)

// newPgStore connects to DATABASE_URL and seeds one user. Tests using it
// are skipped when no database is configured.
func newPgStore(t *testing.T) (*PgRefreshTokenRepository, string) {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := logger.NewWriter(&bytes.Buffer{}, "test", "error")
	require.NoError(t, db.RunMigrations(ctx, log, url))
	pool, err := db.NewPool(ctx, log, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	userID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, userrepo.NewPgRepository(pool).Create(ctx, userdomain.User{
		ID:           userdomain.ID(userID),
		Email:        userID + "@example.com",
		PasswordHash: "x",
		Name:         "Rotate",
		Role:         userdomain.RoleUser,
		IsActive:     true,
		SapID:        uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	t.Cleanup(func() { deleteUser(pool, userID) })

	return NewPgRefreshTokenRepository(pool, log), userID
}

func deleteUser(pool *pgxpool.Pool, userID string) {
	_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, userID)
}

func pgRecord(userID, token string) authdomain.RefreshToken {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return authdomain.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestPgRefreshTokenRepository_RotateConcurrentSingleWinner(t *testing.T) {
	store, userID := newPgStore(t)
	ctx := context.Background()

	old := uuid.NewString()
	require.NoError(t, store.Insert(ctx, pgRecord(userID, old)))

	const callers = 2
	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		errs     = make([]error, callers)
		replaced = make([]string, callers)
	)
	for i := 0; i < callers; i++ {
		replaced[i] = uuid.NewString()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = store.Rotate(ctx, old, pgRecord(userID, replaced[i]))
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			_, findErr := store.FindByToken(ctx, replaced[i])
			assert.NoError(t, findErr, "winner's token must be stored")
		case errors.Is(err, ErrRefreshTokenNotFound):
			_, findErr := store.FindByToken(ctx, replaced[i])
			assert.ErrorIs(t, findErr, ErrRefreshTokenNotFound, "loser's token must not be stored")
		default:
			t.Fatalf("unexpected rotate error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)

	_, err := store.FindByToken(ctx, old)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestPgRefreshTokenRepository_RotateMissingToken(t *testing.T) {
	store, userID := newPgStore(t)
	ctx := context.Background()

	next := pgRecord(userID, uuid.NewString())
	err := store.Rotate(ctx, uuid.NewString(), next)

	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	_, err = store.FindByToken(ctx, next.Token)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound, "rolled back rotation must not insert")
}
