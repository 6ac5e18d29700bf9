package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStatusCache(client, time.Hour), mr
}

func TestRedisStatusCache_SetAndGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	estimate := 15

	written, err := cache.Set(ctx, Snapshot{OrderID: 42, Status: "Preparing", EstimatedMinutes: &estimate, UpdatedAt: at})
	require.NoError(t, err)
	assert.True(t, written)

	snap, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Preparing", snap.Status)
	require.NotNil(t, snap.EstimatedMinutes)
	assert.Equal(t, 15, *snap.EstimatedMinutes)
	assert.True(t, at.Equal(snap.UpdatedAt))

	assert.True(t, mr.Exists("order:status:42"))
	assert.Equal(t, time.Hour, mr.TTL("order:status:42"))
}

func TestRedisStatusCache_IgnoresOlderSnapshot(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := cache.Set(ctx, Snapshot{OrderID: 1, Status: "Ready", UpdatedAt: now})
	require.NoError(t, err)

	written, err := cache.Set(ctx, Snapshot{OrderID: 1, Status: "Preparing", UpdatedAt: now.Add(-time.Minute)})
	require.NoError(t, err)
	assert.False(t, written)

	snap, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ready", snap.Status)
	assert.Nil(t, snap.EstimatedMinutes)
}

func TestRedisStatusCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStatusCache_Delete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Set(ctx, Snapshot{OrderID: 9, Status: "Pending", UpdatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, 9))

	assert.False(t, mr.Exists("order:status:9"))
}

func TestEvent_Known(t *testing.T) {
	assert.True(t, Event{Type: EventOrderPlaced}.Known())
	assert.True(t, Event{Type: EventOrderStatusChanged}.Known())
	assert.False(t, Event{Type: "new_review"}.Known())
}
