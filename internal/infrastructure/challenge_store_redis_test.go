package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
)

func newRedisStore(t *testing.T) *RedisChallengeStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisChallengeStore(client)
}

func TestRedisStoreConsumeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	challenge := newTestChallenge(t, "alice@x.com", time.Minute)
	require.NoError(t, store.Put(ctx, challenge))

	got, err := store.Consume(ctx, "alice@x.com", challenge.Code)
	require.NoError(t, err)
	assert.Equal(t, challenge.Email, got.Email)
	assert.Equal(t, challenge.Code, got.Code)
	require.NotNil(t, got.Registration)
	assert.Equal(t, challenge.Registration.Username, got.Registration.Username)

	_, err = store.Consume(ctx, "alice@x.com", challenge.Code)
	assert.ErrorIs(t, err, repositories.ErrChallengeNotFound)
}

func TestRedisStoreMismatchKeepsEntry(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	challenge := newTestChallenge(t, "alice@x.com", time.Minute)
	require.NoError(t, store.Put(ctx, challenge))

	_, err := store.Consume(ctx, "alice@x.com", "000000")
	assert.ErrorIs(t, err, repositories.ErrCodeMismatch)

	_, err = store.Consume(ctx, "alice@x.com", challenge.Code)
	assert.NoError(t, err)
}

func TestRedisStoreExpiredIsEvicted(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	challenge := newTestChallenge(t, "alice@x.com", -time.Second)
	require.NoError(t, store.Put(ctx, challenge))

	got, err := store.Consume(ctx, "alice@x.com", challenge.Code)
	assert.ErrorIs(t, err, repositories.ErrChallengeExpired)
	require.NotNil(t, got)
	assert.Equal(t, "alice@x.com", got.Email)

	_, err = store.Consume(ctx, "alice@x.com", challenge.Code)
	assert.ErrorIs(t, err, repositories.ErrChallengeNotFound)
}

func TestRedisStorePutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	first := newTestChallenge(t, "alice@x.com", time.Minute)
	require.NoError(t, store.Put(ctx, first))

	userId := uuid.New()
	second, err := entities.NewLoginChallenge("alice@x.com", userId, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Consume(ctx, "alice@x.com", second.Code)
	require.NoError(t, err)
	assert.Equal(t, entities.ChallengeLogin, got.Purpose)
	require.NotNil(t, got.Login)
	assert.Equal(t, userId, got.Login.UserId)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	challenge := newTestChallenge(t, "alice@x.com", time.Minute)
	require.NoError(t, store.Put(ctx, challenge))
	require.NoError(t, store.Delete(ctx, "alice@x.com"))

	_, err := store.Consume(ctx, "alice@x.com", challenge.Code)
	assert.ErrorIs(t, err, repositories.ErrChallengeNotFound)
}
