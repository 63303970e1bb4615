package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriflow/internal/ratelimit/config"
	"veriflow/internal/ratelimit/models"
	"veriflow/internal/ratelimit/service"
	"veriflow/internal/ratelimit/store/bucket"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/circuit"
	"veriflow/pkg/requestcontext"
)

type failingLimiter struct{}

func (failingLimiter) CheckUser(context.Context, id.UserID, models.EndpointClass) (*models.RateLimitResult, error) {
	return nil, errors.New("redis unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLimiter(t *testing.T, read, write int) *service.Service {
	t.Helper()
	svc, err := service.New(bucket.NewInMemory(), service.WithConfig(&config.Config{
		Enabled:       true,
		ReadRequests:  read,
		WriteRequests: write,
		Window:        time.Minute,
	}))
	require.NoError(t, err)
	return svc
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, method string, userID id.UserID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/verification-requests", nil)
	if !userID.IsNil() {
		req = req.WithContext(requestcontext.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByMethod(t *testing.T) {
	mw := New(newLimiter(t, 3, 1), discardLogger())
	h := mw.RateLimitByMethod()(okHandler())
	actor := id.UserID(uuid.New())

	t.Run("write budget exhausted returns 429", func(t *testing.T) {
		first := serve(h, http.MethodPost, actor)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		second := serve(h, http.MethodPut, actor)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "user_rate_limit_exceeded")
	})

	t.Run("reads keep their own budget", func(t *testing.T) {
		rec := serve(h, http.MethodGet, actor)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("other actors are unaffected", func(t *testing.T) {
		rec := serve(h, http.MethodPost, id.UserID(uuid.New()))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous requests pass through", func(t *testing.T) {
		rec := serve(h, http.MethodPost, id.UserID{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})
}

func TestRateLimitDisabled(t *testing.T) {
	mw := New(newLimiter(t, 1, 1), discardLogger(), WithDisabled(true))
	h := mw.RateLimitAuthenticated(models.ClassWrite)(okHandler())
	actor := id.UserID(uuid.New())

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, actor).Code)
	}
}

func TestStoreFailureFailsOpenWithoutFallback(t *testing.T) {
	mw := New(failingLimiter{}, discardLogger())
	h := mw.RateLimitAuthenticated(models.ClassWrite)(okHandler())

	rec := serve(h, http.MethodPost, id.UserID(uuid.New()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(HeaderStatus))
}

func TestFallbackTakesOverWhenBreakerOpens(t *testing.T) {
	breaker := circuit.New("ratelimit", circuit.WithFailureThreshold(2))
	mw := New(failingLimiter{}, discardLogger(), WithFallback(newLimiter(t, 5, 1), breaker))
	h := mw.RateLimitAuthenticated(models.ClassWrite)(okHandler())
	actor := id.UserID(uuid.New())

	first := serve(h, http.MethodPost, actor)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(HeaderStatus), "below threshold the request fails open")

	second := serve(h, http.MethodPost, actor)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "degraded", second.Header().Get(HeaderStatus))
	require.True(t, breaker.IsOpen())

	third := serve(h, http.MethodPost, actor)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "degraded", third.Header().Get(HeaderStatus))
}
