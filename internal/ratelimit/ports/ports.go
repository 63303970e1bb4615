// Package ports defines the storage interface the rate limiter depends on.
package ports

import (
	"context"
	"time"

	"veriflow/internal/ratelimit/models"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

// BucketStore manages sliding window rate limit counters.
type BucketStore interface {
	// Allow checks if a single request is allowed and consumes one slot if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)

	// Reset clears the rate limit counter for a key.
	Reset(ctx context.Context, key string) error

	// GetCurrentCount returns the current request count in the window.
	GetCurrentCount(ctx context.Context, key string, window time.Duration) (int, error)
}
