package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"veriflow/internal/ratelimit/metrics"
	"veriflow/internal/ratelimit/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/circuit"
	"veriflow/pkg/platform/httputil"
	"veriflow/pkg/requestcontext"
)

// HeaderStatus is set to "degraded" while the fallback limiter is in use.
const HeaderStatus = "X-RateLimit-Status"

type RateLimiter interface {
	CheckUser(ctx context.Context, userID id.UserID, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback serves checks from fallback while breaker is open.
func WithFallback(fallback RateLimiter, breaker *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.fallback = fallback
		m.breaker = breaker
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fallback != nil && m.breaker == nil {
		m.breaker = circuit.New("ratelimit")
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimitAuthenticated limits the authenticated actor against class.
// Requests without an actor pass through untouched.
func (m *Middleware) RateLimitAuthenticated(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(func(*http.Request) models.EndpointClass { return class })
}

// RateLimitByMethod limits reads and writes against separate budgets.
func (m *Middleware) RateLimitByMethod() func(http.Handler) http.Handler {
	return m.limit(func(r *http.Request) models.EndpointClass { return models.ClassForMethod(r.Method) })
}

func (m *Middleware) limit(classify func(*http.Request) models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			userID := requestcontext.UserID(ctx)
			if userID.IsNil() {
				next.ServeHTTP(w, r)
				return
			}

			result, degraded, err := m.check(ctx, userID, classify(r))
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check user rate limit", "error", err, "user_id", userID.String())
				next.ServeHTTP(w, r)
				return
			}

			if degraded {
				w.Header().Set(HeaderStatus, "degraded")
			}
			addRateLimitHeaders(w, result)

			if !result.Allowed {
				writeUserRateLimitExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check consults the primary limiter and records its health on the breaker.
// Once the breaker opens the fallback answers until the primary recovers.
func (m *Middleware) check(ctx context.Context, userID id.UserID, class models.EndpointClass) (*models.RateLimitResult, bool, error) {
	result, err := m.limiter.CheckUser(ctx, userID, class)
	if m.fallback == nil {
		return result, false, err
	}

	if err == nil {
		usePrimary, change := m.breaker.RecordSuccess()
		if change.Closed {
			m.logger.InfoContext(ctx, "rate limit store recovered, leaving fallback")
		}
		if usePrimary {
			return result, false, nil
		}
	} else {
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limit store failing, switching to in-memory fallback", "error", err)
		}
		if !useFallback {
			return nil, false, err
		}
	}

	m.metrics.IncrementFallback()
	result, err = m.fallback.CheckUser(ctx, userID, class)
	return result, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeUserRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.UserRateLimitExceededResponse{
		Error:          "user_rate_limit_exceeded",
		Message:        "You have exceeded your request quota for this operation.",
		QuotaLimit:     result.Limit,
		QuotaRemaining: result.Remaining,
		QuotaReset:     result.ResetAt,
	})
}
