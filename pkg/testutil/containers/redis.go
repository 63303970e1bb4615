//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer is a throwaway Redis for quota and rate limit store tests.
// URL is in redis:// form, ready for config.RedisConfig.
type RedisContainer struct {
	URL    string
	Client *redis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start redis container")

	url, err := ctr.ConnectionString(ctx)
	require.NoError(t, err, "redis connection string")

	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "parse redis url")
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err(), "ping redis")

	return &RedisContainer{URL: url, Client: client}
}

// FlushAll drops every key so subtests start empty.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
