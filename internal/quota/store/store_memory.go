package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

type InMemoryQuotaStore struct {
	mu      sync.RWMutex
	records map[models.Key]*models.QuotaRecord
}

func NewInMemory() *InMemoryQuotaStore {
	return &InMemoryQuotaStore{
		records: make(map[models.Key]*models.QuotaRecord),
	}
}

func (s *InMemoryQuotaStore) Get(_ context.Context, key models.Key) (*models.QuotaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *InMemoryQuotaStore) Increment(ctx context.Context, key models.Key, policy models.Policy) (*models.QuotaRecord, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = models.NewRecord(key, policy, now)
		s.records[key] = rec
	} else {
		rec.ApplyIncrement(policy, now)
	}
	copied := *rec
	return &copied, nil
}

func (s *InMemoryQuotaStore) ListByCustomer(_ context.Context, customerID id.UserID, year int) ([]*models.QuotaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.QuotaRecord
	for key, rec := range s.records {
		if key.CustomerID == customerID && key.Year == year {
			copied := *rec
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *models.QuotaRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.RequestorID.String(), b.RequestorID.String())
	})
	return out, nil
}

func (s *InMemoryQuotaStore) SetMaxAllowed(ctx context.Context, key models.Key, maxAllowed int) (*models.QuotaRecord, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = &models.QuotaRecord{
			CustomerID:  key.CustomerID,
			RequestorID: key.RequestorID,
			Year:        key.Year,
			CreatedAt:   now,
		}
		s.records[key] = rec
	}
	rec.MaxAllowedRequests = maxAllowed
	rec.UpdatedAt = now
	copied := *rec
	return &copied, nil
}
