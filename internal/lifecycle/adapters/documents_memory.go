package adapters

import (
	"context"
	"sync"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
)

// InMemoryDocumentInventory records document metadata per request. It
// implements the batch extension so workload scoring needs one call.
type InMemoryDocumentInventory struct {
	mu   sync.RWMutex
	docs map[id.VerificationRequestID][]models.DocumentSummary
}

func NewInMemoryDocumentInventory() *InMemoryDocumentInventory {
	return &InMemoryDocumentInventory{docs: make(map[id.VerificationRequestID][]models.DocumentSummary)}
}

func (i *InMemoryDocumentInventory) Add(requestID id.VerificationRequestID, doc models.DocumentSummary) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[requestID] = append(i.docs[requestID], doc)
}

func (i *InMemoryDocumentInventory) FindByVerificationRequestID(_ context.Context, requestID id.VerificationRequestID) ([]models.DocumentSummary, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	docs := i.docs[requestID]
	out := make([]models.DocumentSummary, len(docs))
	copy(out, docs)
	return out, nil
}

func (i *InMemoryDocumentInventory) SummarizeByRequests(_ context.Context, requestIDs []id.VerificationRequestID) (map[id.VerificationRequestID]models.DocumentTotals, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[id.VerificationRequestID]models.DocumentTotals, len(requestIDs))
	for _, reqID := range requestIDs {
		var totals models.DocumentTotals
		for _, doc := range i.docs[reqID] {
			totals.Add(doc)
		}
		out[reqID] = totals
	}
	return out, nil
}
