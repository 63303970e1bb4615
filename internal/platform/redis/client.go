// Package redis opens the optional Redis connection shared by the quota and
// rate limit stores.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"veriflow/internal/platform/config"
)

// Client is the shared connection. Stores take the embedded *redis.Client.
type Client struct {
	*redis.Client
}

// New dials cfg.URL and pings it. An empty URL disables Redis and returns a
// nil client without error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	applyPoolSettings(opts, cfg)

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Client: rdb}, nil
}

// applyPoolSettings overrides the URL's options with configured values.
// Zero values keep the go-redis defaults.
func applyPoolSettings(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Health pings the server. It backs the readiness check.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	return nil
}
