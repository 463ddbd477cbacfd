// Package quota keeps per-user daily execution counters in Redis.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyTTL = 48 * time.Hour

var ErrRedisNotReady = errors.New("redis is not ready")

// consumeScript increments the counter only while it is below the limit.
// A negative limit means no ceiling. Returns {allowed, used}.
const consumeScript = `
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if limit >= 0 and current >= limit then
	return {0, current}
end
local used = redis.call('INCR', KEYS[1])
if used == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return {1, used}
`

type redisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type Store struct {
	client redisClient
}

func NewStore(client redisClient) *Store {
	return &Store{client: client}
}

// Connect parses url and pings the server until timeout elapses.
func Connect(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}

func (s *Store) Increment(ctx context.Context, userID string, day time.Time, limit int64) (bool, int64, error) {
	values, err := s.client.Eval(ctx, consumeScript, []string{counterKey(userID, day)}, limit, int64(keyTTL.Seconds())).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("consume quota: %w", err)
	}
	if len(values) != 2 {
		return false, 0, fmt.Errorf("consume quota: unexpected script result %v", values)
	}
	return values[0] == 1, values[1], nil
}

func (s *Store) Used(ctx context.Context, userID string, day time.Time) (int64, error) {
	used, err := s.client.Get(ctx, counterKey(userID, day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota: %w", err)
	}
	return used, nil
}

func counterKey(userID string, day time.Time) string {
	return "usage:" + userID + ":" + day.UTC().Format("2006-01-02")
}
