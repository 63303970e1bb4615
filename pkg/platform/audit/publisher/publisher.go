// Package publisher writes audit events to the outbox. Delivery to
// downstream consumers happens asynchronously in the outbox dispatcher.
package publisher

import (
	"context"
	"errors"
	"fmt"

	audit "veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/outbox"
	"veriflow/pkg/requestcontext"
)

// Publisher appends audit events to an outbox store.
type Publisher struct {
	store outbox.Store
}

func NewPublisher(store outbox.Store) *Publisher {
	return &Publisher{store: store}
}

// Emit enriches the event with category, timestamp and request ID, then
// appends it to the outbox keyed by entity ID.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p == nil || p.store == nil {
		return errors.New("audit publisher is not configured")
	}
	if event.Action == "" {
		return errors.New("audit event action is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	msg, err := outbox.NewJSONMessage(audit.Topic, event.EntityID, event, event.Timestamp)
	if err != nil {
		return err
	}
	if err := p.store.Append(ctx, msg); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
