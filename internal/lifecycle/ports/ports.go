// Package ports defines the interfaces the lifecycle module depends on.
// Collaborators (directory, documents, quota, event sinks) are consumed here so
// the engines and the orchestrator never import their implementations.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

import (
	"context"

	"veriflow/internal/lifecycle/models"
	quotamodels "veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
)

// Store persists verification requests and their status history. Stores
// return sentinel.ErrNotFound for missing requests.
type Store interface {
	CreateRequest(ctx context.Context, req *models.VerificationRequest) error
	FindRequest(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error)
	// FindRequestForUpdate locks the request until the surrounding transaction ends.
	FindRequestForUpdate(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error)
	UpdateRequest(ctx context.Context, req *models.VerificationRequest) error
	// ListActiveByOfficers returns the IDs of requests in status assigned to
	// each officer, in creation order.
	ListActiveByOfficers(ctx context.Context, officerIDs []id.UserID, status models.Status) (map[id.UserID][]id.VerificationRequestID, error)

	AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error
	// ListHistory returns entries most recent first.
	ListHistory(ctx context.Context, requestID id.VerificationRequestID) ([]*models.StatusHistoryEntry, error)
}

// StoreTx provides a transactional boundary for request and history mutations.
// Implementations may wrap a database transaction or, in-memory, a lock keyed
// by request.
type StoreTx interface {
	RunInTx(ctx context.Context, requestID id.VerificationRequestID, fn func(ctx context.Context, store Store) error) error
}

// UserDirectory resolves users. GetByID returns sentinel.ErrNotFound for unknown users.
type UserDirectory interface {
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// DocumentInventory lists document metadata for a request.
type DocumentInventory interface {
	FindByVerificationRequestID(ctx context.Context, requestID id.VerificationRequestID) ([]models.DocumentSummary, error)
}

// BatchDocumentInventory is an optional extension that aggregates documents
// for many requests in one call.
type BatchDocumentInventory interface {
	DocumentInventory
	SummarizeByRequests(ctx context.Context, requestIDs []id.VerificationRequestID) (map[id.VerificationRequestID]models.DocumentTotals, error)
}

// QuotaLimiter gates and counts request creation per (customer, requestor).
type QuotaLimiter interface {
	CanCreate(ctx context.Context, customerID, requestorID id.UserID) (bool, error)
	IncrementRequestCount(ctx context.Context, customerID, requestorID id.UserID) (*quotamodels.QuotaRecord, error)
	GetRequestorCount(ctx context.Context, requestorID, customerID id.UserID, year int) (*quotamodels.RequestorCount, error)
	GetCustomerTotal(ctx context.Context, customerID id.UserID) (*quotamodels.CustomerTotal, error)
	ListRequestorCounts(ctx context.Context, customerID id.UserID) ([]*quotamodels.RequestorCount, error)
	SetMaxAllowed(ctx context.Context, customerID, requestorID id.UserID, maxAllowed int) (*quotamodels.RequestorCount, error)
}

// AuditPublisher emits audit events. Emission is best effort for callers.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// NotificationPublisher emits user notifications. Emission is best effort for callers.
type NotificationPublisher interface {
	Notify(ctx context.Context, n notification.Notification) error
}
