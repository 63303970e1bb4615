// Package outbox decouples event emission from delivery. Domain code appends
// typed messages to a Store; a worker.Dispatcher drains pending messages to a
// Deliverer (Kafka in production). Business operations never wait on the broker.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one pending or delivered outbox entry.
type Message struct {
	ID          uuid.UUID
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	Attempts    int
	LastError   string
	DeliveredAt *time.Time
}

// Store persists outbox messages until they are delivered.
type Store interface {
	Append(ctx context.Context, msg Message) error
	FetchPending(ctx context.Context, limit int) ([]Message, error)
	MarkDelivered(ctx context.Context, ids []uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// Deliverer hands messages to the downstream channel.
type Deliverer interface {
	Deliver(ctx context.Context, msgs []Message) error
}

// NewJSONMessage builds a message whose payload is the JSON encoding of v.
func NewJSONMessage(topic, key string, v any, now time.Time) (Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return Message{
		ID:        uuid.New(),
		Topic:     topic,
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}
