package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"veriflow/pkg/platform/outbox"
)

// InMemoryStore keeps outbox messages in insertion order.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages []*outbox.Message
	index    map[uuid.UUID]*outbox.Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{index: make(map[uuid.UUID]*outbox.Message)}
}

func (s *InMemoryStore) Append(_ context.Context, msg outbox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := msg
	s.messages = append(s.messages, &m)
	s.index[m.ID] = &m
	return nil
}

func (s *InMemoryStore) FetchPending(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []outbox.Message
	for _, m := range s.messages {
		if m.DeliveredAt != nil {
			continue
		}
		pending = append(pending, *m)
		if limit > 0 && len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *InMemoryStore) MarkDelivered(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msgID := range ids {
		if m, ok := s.index[msgID]; ok {
			delivered := at
			m.DeliveredAt = &delivered
		}
	}
	return nil
}

func (s *InMemoryStore) MarkFailed(_ context.Context, msgID uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.index[msgID]; ok {
		m.Attempts++
		m.LastError = reason
	}
	return nil
}

// ListByTopic returns every message for topic, delivered or not.
func (s *InMemoryStore) ListByTopic(_ context.Context, topic string) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []outbox.Message
	for _, m := range s.messages {
		if m.Topic == topic {
			out = append(out, *m)
		}
	}
	return out, nil
}

// Clear drops all messages.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.index = make(map[uuid.UUID]*outbox.Message)
}
