package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
)

// InMemoryStore keeps requests and history in maps. Values are cloned on the
// way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.VerificationRequestID]*models.VerificationRequest
	history  map[id.VerificationRequestID][]*models.StatusHistoryEntry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		requests: make(map[id.VerificationRequestID]*models.VerificationRequest),
		history:  make(map[id.VerificationRequestID][]*models.StatusHistoryEntry),
	}
}

func (s *InMemoryStore) CreateRequest(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; exists {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = req.Clone()
	return nil
}

func (s *InMemoryStore) FindRequest(_ context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return req.Clone(), nil
}

// FindRequestForUpdate relies on the sharded transaction for exclusion.
func (s *InMemoryStore) FindRequestForUpdate(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error) {
	return s.FindRequest(ctx, requestID)
}

func (s *InMemoryStore) UpdateRequest(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[req.ID] = req.Clone()
	return nil
}

func (s *InMemoryStore) ListActiveByOfficers(_ context.Context, officerIDs []id.UserID, status models.Status) (map[id.UserID][]id.VerificationRequestID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.UserID]struct{}, len(officerIDs))
	for _, o := range officerIDs {
		wanted[o] = struct{}{}
	}

	var matches []*models.VerificationRequest
	for _, req := range s.requests {
		if req.Status != status || !req.HasOfficer() {
			continue
		}
		if _, ok := wanted[*req.AssignedOfficerID]; ok {
			matches = append(matches, req)
		}
	}
	slices.SortFunc(matches, func(a, b *models.VerificationRequest) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	out := make(map[id.UserID][]id.VerificationRequestID, len(officerIDs))
	for _, req := range matches {
		officer := *req.AssignedOfficerID
		out[officer] = append(out[officer], req.ID)
	}
	return out, nil
}

func (s *InMemoryStore) AppendHistory(_ context.Context, entry *models.StatusHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.history[entry.VerificationRequestID] = append(s.history[entry.VerificationRequestID], &copied)
	return nil
}

// ListHistory orders by ChangedAt descending; entries sharing a timestamp keep
// reverse insertion order.
func (s *InMemoryStore) ListHistory(_ context.Context, requestID id.VerificationRequestID) ([]*models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[requestID]
	out := make([]*models.StatusHistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		copied := *entries[i]
		out = append(out, &copied)
	}
	slices.SortStableFunc(out, func(a, b *models.StatusHistoryEntry) int {
		return b.ChangedAt.Compare(a.ChangedAt)
	})
	return out, nil
}
