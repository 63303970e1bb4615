package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"veriflow/internal/ratelimit/models"
	"veriflow/pkg/requestcontext"
)

// InMemoryBucketStore keeps sliding windows in process memory. It is the
// single-node store and the fallback when Redis is unreachable.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

// slidingWindow tracks request timestamps, oldest first.
type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

func NewInMemory() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		buckets: make(map[string]*slidingWindow),
	}
}

// Allow checks if a request is allowed and records it when it is.
func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.getOrCreateBucket(key, window)
	sw.cleanup(now)

	if len(sw.timestamps) < limit {
		sw.timestamps = append(sw.timestamps, now)
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.timestamps),
			ResetAt:   sw.timestamps[0].Add(window),
		}, nil
	}

	resetAt := now.Add(window)
	if len(sw.timestamps) > 0 {
		resetAt = sw.timestamps[0].Add(window)
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(now, resetAt),
	}, nil
}

// Reset clears the rate limit counter for a key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// GetCurrentCount returns the number of requests inside the window.
func (s *InMemoryBucketStore) GetCurrentCount(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.buckets[key]
	if sw == nil {
		return 0, nil
	}
	sw.window = window
	sw.cleanup(requestcontext.Now(ctx))
	return len(sw.timestamps), nil
}

// cleanup removes timestamps that fell out of the window.
func (sw *slidingWindow) cleanup(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// getOrCreateBucket must be called while holding s.mu.
func (s *InMemoryBucketStore) getOrCreateBucket(key string, window time.Duration) *slidingWindow {
	if sw := s.buckets[key]; sw != nil {
		sw.window = window
		return sw
	}
	sw := &slidingWindow{timestamps: []time.Time{}, window: window}
	s.buckets[key] = sw
	return sw
}

func retryAfterSeconds(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
