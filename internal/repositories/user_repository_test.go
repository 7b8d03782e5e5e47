package repositories

import (
	"context"
	"testing"
	"time"

	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := cache.NewCacheService(cache.NewMemoryStore(time.Minute, time.Minute), time.Minute)
	repo := NewUserRepository(db, svc, sl.Discard())

	u := &models.User{FullName: "Siti Aminah", PhoneNumber: "+6281234567", IsVerified: true}
	require.NoError(t, repo.Create(ctx, u))

	byPhone, err := repo.GetByPhone(ctx, "+6281234567")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byPhone.UserID)

	byID, err := repo.GetByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Siti Aminah", byID.FullName)

	_, found, err := svc.GetUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = repo.GetByPhone(ctx, "+620000")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = repo.Create(ctx, &models.User{FullName: "Dup", PhoneNumber: "+6281234567"})
	assert.Error(t, err)
}

func TestUserRepository_Devices(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db, nil, sl.Discard())
	u := seedUser(t, db, "+62817", 0, 0)

	require.NoError(t, repo.AddDevice(ctx, &models.Device{UserID: u.UserID, PlayerID: "player-1"}))
	require.NoError(t, repo.AddDevice(ctx, &models.Device{UserID: u.UserID, PlayerID: "player-2"}))

	devices, err := repo.ListDevices(ctx, u.UserID)
	require.NoError(t, err)
	assert.Len(t, devices, 2)
}
