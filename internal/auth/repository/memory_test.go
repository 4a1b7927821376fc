package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
)

func newStore(t *testing.T) *MemoryRefreshTokenRepository {
	t.Helper()
	users := userrepo.NewMemoryRepository()
	require.NoError(t, users.Create(context.Background(), userdomain.User{
		ID:       "user-1",
		Email:    "jane@example.com",
		Name:     "Jane",
		Role:     userdomain.RoleUser,
		IsActive: true,
	}))
	return NewMemoryRefreshTokenRepository(users)
}

func record(token string) authdomain.RefreshToken {
	now := time.Now()
	return authdomain.RefreshToken{Token: token, UserID: "user-1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
}

func TestMemoryStore_InsertFind(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record("t1")))

	got, err := store.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "jane@example.com", got.User.Email)
	assert.Equal(t, userdomain.ID("user-1"), got.User.ID)

	_, err = store.FindByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestMemoryStore_DeleteCounts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, record("t1")))
	require.NoError(t, store.Insert(ctx, record("t2")))

	n, err := store.DeleteByUserAndToken(ctx, "someone-else", "t1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteByUserAndToken(ctx, "user-1", "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.DeleteByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, store.Has("t2"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Rotate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, record("old")))

	require.NoError(t, store.Rotate(ctx, "old", record("new")))
	assert.False(t, store.Has("old"))
	assert.True(t, store.Has("new"))

	err := store.Rotate(ctx, "old", record("newer"))
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	assert.False(t, store.Has("newer"))
}

func TestMemoryStore_ConcurrentRotateSingleWinner(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, record("shared")))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := record("next-" + string(rune('a'+i)))
			if err := store.Rotate(ctx, "shared", next); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, store.Len())
}
