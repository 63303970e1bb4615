package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"veriflow/internal/ratelimit/models"
	"veriflow/pkg/requestcontext"
)

// KEYS[1] window sorted set.
// ARGV: now (unix millis), window (millis), limit, member.
// Returns {allowed, count, oldest score}.
var allowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)
local count = redis.call('ZCARD', KEYS[1])
local allowed = 0
if count < tonumber(ARGV[3]) then
	redis.call('ZADD', KEYS[1], now, ARGV[4])
	count = count + 1
	allowed = 1
end
redis.call('PEXPIRE', KEYS[1], window)
local oldest = now
local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
if first[2] then
	oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisBucketStore keeps one sorted set of request timestamps per key so
// every replica shares the same windows.
type RedisBucketStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	vals, err := allowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("check rate limit bucket: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("check rate limit bucket: unexpected reply length %d", len(vals))
	}

	resetAt := time.UnixMilli(vals[2]).Add(window)
	if vals[0] == 1 {
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - int(vals[1]),
			ResetAt:   resetAt,
		}, nil
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(now, resetAt),
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset rate limit bucket: %w", err)
	}
	return nil
}

func (s *RedisBucketStore) GetCurrentCount(ctx context.Context, key string, window time.Duration) (int, error) {
	cutoff := requestcontext.Now(ctx).Add(-window).UnixMilli()
	n, err := s.client.ZCount(ctx, key, fmt.Sprintf("(%d", cutoff), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count rate limit bucket: %w", err)
	}
	return int(n), nil
}
