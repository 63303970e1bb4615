package service

import (
	"context"

	quotamodels "veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
)

// GetRequestorCountForCustomer returns the pair's counters for year.
func (s *Service) GetRequestorCountForCustomer(ctx context.Context, requestorID, customerID id.UserID, year int) (*quotamodels.RequestorCount, error) {
	return s.quota.GetRequestorCount(ctx, requestorID, customerID, year)
}

// GetTotalRequestsForCustomer aggregates every requestor's total this year.
func (s *Service) GetTotalRequestsForCustomer(ctx context.Context, customerID id.UserID) (*quotamodels.CustomerTotal, error) {
	return s.quota.GetCustomerTotal(ctx, customerID)
}

func (s *Service) ListRequestorCounts(ctx context.Context, customerID id.UserID) ([]*quotamodels.RequestorCount, error) {
	return s.quota.ListRequestorCounts(ctx, customerID)
}

// SetRequestorQuota sets the pair's yearly cap.
func (s *Service) SetRequestorQuota(ctx context.Context, customerID, requestorID id.UserID, maxAllowed int) (*quotamodels.RequestorCount, error) {
	return s.quota.SetMaxAllowed(ctx, customerID, requestorID, maxAllowed)
}
