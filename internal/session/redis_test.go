package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return NewRedisStoreWithClient(client), mr
}

func TestRedisStoreSaveAndLoad(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	user := testUser()
	require.NoError(t, store.Save(ctx, user))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, user.Email, loaded.Email)
	assert.Equal(t, user.Provider, loaded.Provider)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStoreLoadCorrupt(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("pawlingo_user", "{not json"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptSession)

	// The corrupt entry is removed on load
	assert.False(t, mr.Exists("pawlingo_user"))
}

func TestRedisStoreClear(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testUser()))
	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("pawlingo_user"))
}
