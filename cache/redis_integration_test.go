//go:build integration

package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisURL string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	ctx := context.Background()

	client, err := NewRedisClient(ctx, testRedisURL)
	require.NoError(t, err)
	require.NoError(t, client.FlushAll(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "nexus:test:")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	_, ok, err := store.Get(ctx, "leaderboard:top:5")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "leaderboard:top:5", []byte(`[{"id":"p1"}]`), time.Minute))
	got, ok, err := store.Get(ctx, "leaderboard:top:5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(got))

	require.NoError(t, store.Delete(ctx, "leaderboard:top:5"))
	_, ok, err = store.Get(ctx, "leaderboard:top:5")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Second))
	ttl, err := store.rdb.TTL(ctx, "nexus:test:short").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Second)
}
