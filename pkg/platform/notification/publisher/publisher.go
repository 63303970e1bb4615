package publisher

import (
	"context"
	"errors"
	"fmt"

	"veriflow/pkg/platform/notification"
	"veriflow/pkg/platform/outbox"
	"veriflow/pkg/requestcontext"
)

// Publisher appends notifications to an outbox store, keyed by recipient.
type Publisher struct {
	store outbox.Store
}

func NewPublisher(store outbox.Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Notify(ctx context.Context, n notification.Notification) error {
	if p == nil || p.store == nil {
		return errors.New("notification publisher is not configured")
	}
	if n.RecipientID == "" {
		return errors.New("notification recipient is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = requestcontext.Now(ctx)
	}
	if n.RequestID == "" {
		n.RequestID = requestcontext.RequestID(ctx)
	}

	msg, err := outbox.NewJSONMessage(notification.Topic, n.RecipientID, n, n.CreatedAt)
	if err != nil {
		return err
	}
	if err := p.store.Append(ctx, msg); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}
