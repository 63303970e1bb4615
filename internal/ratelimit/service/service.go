// Package service applies per-actor sliding window limits to API calls.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"veriflow/internal/ratelimit/config"
	"veriflow/internal/ratelimit/metrics"
	"veriflow/internal/ratelimit/models"
	"veriflow/internal/ratelimit/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/requestcontext"
)

type BucketStore = ports.BucketStore

// configRetryAfter is returned when no limit is configured for a class.
const configRetryAfter = 60

type Service struct {
	buckets BucketStore
	logger  *slog.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets: buckets,
		config:  config.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckUser consumes one slot of the actor's budget for class. Classes with no
// configured limit are denied.
func (s *Service) CheckUser(ctx context.Context, userID id.UserID, class models.EndpointClass) (*models.RateLimitResult, error) {
	requestsPerWindow, window, ok := s.config.GetUserLimit(class)
	if !ok {
		s.logAudit(ctx, "rate_limit_config_missing",
			"identifier", userID.String(),
			"endpoint_class", string(class),
		)
		s.metrics.RecordCheck(string(class), false)
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx),
			RetryAfter: configRetryAfter,
		}, nil
	}
	return s.checkRateLimit(ctx, userID, class, requestsPerWindow, window)
}

func (s *Service) checkRateLimit(
	ctx context.Context,
	userID id.UserID,
	class models.EndpointClass,
	requestsPerWindow int,
	window time.Duration,
) (*models.RateLimitResult, error) {
	key := models.NewUserRateLimitKey(userID, class)
	result, err := s.buckets.Allow(ctx, key.String(), requestsPerWindow, window)
	if err != nil {
		s.metrics.IncrementStoreError()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	s.metrics.RecordCheck(string(class), result.Allowed)
	if !result.Allowed {
		s.logAudit(ctx, "user_rate_limit_exceeded",
			"identifier", userID.String(),
			"endpoint_class", string(class),
			"limit", requestsPerWindow,
			"window_seconds", int(window.Seconds()),
		)
	}
	return result, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.WarnContext(ctx, event, args...)
	}
}
