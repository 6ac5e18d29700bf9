package tracking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("status snapshot not cached")

// setIfNewer writes the snapshot unless the cached one carries a later
// updated_at. Returns 1 when written.
var setIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'updated_at')
if current and tonumber(current) > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[1], 'status', ARGV[2], 'estimated_minutes', ARGV[3],
  'customer_id', ARGV[5], 'restaurant_id', ARGV[6])
if tonumber(ARGV[4]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

type RedisStatusCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStatusCache(client *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{Client: client, TTL: ttl}
}

func (c *RedisStatusCache) Key(orderID int) string {
	return "order:status:" + strconv.Itoa(orderID)
}

// Set stores the snapshot and reports whether it replaced the cached one.
// Snapshots older than the cached one are ignored.
func (c *RedisStatusCache) Set(ctx context.Context, snap Snapshot) (bool, error) {
	estimate := ""
	if snap.EstimatedMinutes != nil {
		estimate = strconv.Itoa(*snap.EstimatedMinutes)
	}

	written, err := setIfNewer.Run(ctx, c.Client, []string{c.Key(snap.OrderID)},
		snap.UpdatedAt.UnixMilli(), snap.Status, estimate, c.TTL.Milliseconds(),
		snap.CustomerID, snap.RestaurantID,
	).Int()
	if err != nil {
		return false, err
	}
	return written == 1, nil
}

func (c *RedisStatusCache) Get(ctx context.Context, orderID int) (*Snapshot, error) {
	fields, err := c.Client.HGetAll(ctx, c.Key(orderID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 || fields["status"] == "" {
		return nil, ErrCacheMiss
	}

	snap := &Snapshot{OrderID: orderID, Status: fields["status"]}
	snap.CustomerID, _ = strconv.Atoi(fields["customer_id"])
	snap.RestaurantID, _ = strconv.Atoi(fields["restaurant_id"])
	if raw := fields["estimated_minutes"]; raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		snap.EstimatedMinutes = &minutes
	}
	if raw := fields["updated_at"]; raw != "" {
		millis, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		snap.UpdatedAt = time.UnixMilli(millis).UTC()
	}
	return snap, nil
}

func (c *RedisStatusCache) Delete(ctx context.Context, orderID int) error {
	return c.Client.Del(ctx, c.Key(orderID)).Err()
}
