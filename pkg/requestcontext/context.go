// Package requestcontext carries the actor, request ID and request clock
// through context so services never import net/http. HTTP middleware sets
// them; workers and tests may set them directly.
package requestcontext

import (
	"context"
	"time"

	id "veriflow/pkg/domain"
)

type (
	userIDKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// UserID is the authenticated actor, or the nil ID for anonymous calls.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID records the authenticated actor.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// RequestID is the correlation ID logged and stamped on audit events.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now is the instant the request started. Outside a request it is the wall
// clock, so every write in one request shares a timestamp.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins Now for the rest of the request.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
