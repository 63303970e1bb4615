// Package ports defines the persistence boundary for the quota module.
package ports

import (
	"context"

	"veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
)

// Store persists quota records. Implementations must apply Increment
// atomically per key.
type Store interface {
	// Get returns sentinel.ErrNotFound when no record exists for the key.
	Get(ctx context.Context, key models.Key) (*models.QuotaRecord, error)

	// Increment creates the record on first use and otherwise applies the
	// rolling increment rule in a single atomic step.
	Increment(ctx context.Context, key models.Key, policy models.Policy) (*models.QuotaRecord, error)

	// ListByCustomer returns every record for the customer in year, oldest first.
	ListByCustomer(ctx context.Context, customerID id.UserID, year int) ([]*models.QuotaRecord, error)

	// SetMaxAllowed upserts the per-pair cap, creating an empty record if needed.
	SetMaxAllowed(ctx context.Context, key models.Key, maxAllowed int) (*models.QuotaRecord, error)
}
