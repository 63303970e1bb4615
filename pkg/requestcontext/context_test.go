package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "veriflow/pkg/domain"
)

func TestAccessorsDefaults(t *testing.T) {
	ctx := context.Background()

	assert.True(t, UserID(ctx).IsNil())
	assert.Empty(t, RequestID(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsRoundTrip(t *testing.T) {
	actor := id.UserID(uuid.New())
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	ctx := WithUserID(context.Background(), actor)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, actor, UserID(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
