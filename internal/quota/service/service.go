// Package service gates and counts verification-request creation per
// (customer, requestor) pair for the current calendar year.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"veriflow/internal/quota/config"
	"veriflow/internal/quota/metrics"
	"veriflow/internal/quota/models"
	"veriflow/internal/quota/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

type Store = ports.Store

type Service struct {
	store   Store
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New builds the limiter. A nil cfg uses config.DefaultConfig.
func New(store Store, cfg *config.Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("quota store is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc := &Service{
		store:  store,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) policy() models.Policy {
	return models.Policy{
		RollingCap:        s.cfg.DefaultMaxAllowedRequests,
		DefaultMaxAllowed: s.cfg.MaxRequestsPerCustomer,
		BlockOnRollingCap: s.cfg.BlockOnRollingCap,
	}
}

func currentYear(ctx context.Context) int {
	return requestcontext.Now(ctx).Year()
}

// CanCreate reports whether the requestor may open another request against
// the customer this year. A pair without a record is always allowed.
func (s *Service) CanCreate(ctx context.Context, customerID, requestorID id.UserID) (bool, error) {
	key := models.NewKey(customerID, requestorID, currentYear(ctx))
	rec, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quota record")
	}

	if !rec.AllowsCreate(s.policy()) {
		s.metrics.IncrementLimitExceeded()
		s.logger.InfoContext(ctx, "quota limit reached",
			"customer_id", customerID,
			"requestor_id", requestorID,
			"request_count", rec.RequestCount,
			"total_requests", rec.TotalRequests,
			"max_allowed", rec.MaxAllowedRequests,
		)
		return false, nil
	}
	return true, nil
}

// IncrementRequestCount records one created request for the pair.
func (s *Service) IncrementRequestCount(ctx context.Context, customerID, requestorID id.UserID) (*models.QuotaRecord, error) {
	key := models.NewKey(customerID, requestorID, currentYear(ctx))
	rec, err := s.store.Increment(ctx, key, s.policy())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment quota")
	}
	s.metrics.IncrementIncrements()
	if rec.TotalRequests > 1 && rec.RequestCount == 1 {
		s.metrics.IncrementRollingResets()
		s.logger.InfoContext(ctx, "quota rolling counter reset",
			"customer_id", customerID,
			"requestor_id", requestorID,
			"total_requests", rec.TotalRequests,
		)
	}
	return rec, nil
}

// GetRequestorCount returns the pair's counters for year.
func (s *Service) GetRequestorCount(ctx context.Context, requestorID, customerID id.UserID, year int) (*models.RequestorCount, error) {
	rec, err := s.store.Get(ctx, models.NewKey(customerID, requestorID, year))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no quota record for requestor and customer")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quota record")
	}
	return rec.ToRequestorCount(), nil
}

// GetCustomerTotal sums every requestor's total for the customer this year.
func (s *Service) GetCustomerTotal(ctx context.Context, customerID id.UserID) (*models.CustomerTotal, error) {
	year := currentYear(ctx)
	recs, err := s.listForCustomer(ctx, customerID, year)
	if err != nil {
		return nil, err
	}

	total := &models.CustomerTotal{
		CustomerID: customerID,
		Year:       year,
		MaxAllowed: s.cfg.MaxRequestsPerCustomer,
		Requestors: len(recs),
	}
	for _, rec := range recs {
		total.TotalRequests += rec.TotalRequests
	}
	return total, nil
}

// ListRequestorCounts returns one entry per requestor for the customer this year.
func (s *Service) ListRequestorCounts(ctx context.Context, customerID id.UserID) ([]*models.RequestorCount, error) {
	recs, err := s.listForCustomer(ctx, customerID, currentYear(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]*models.RequestorCount, len(recs))
	for i, rec := range recs {
		out[i] = rec.ToRequestorCount()
	}
	return out, nil
}

// SetMaxAllowed configures the per-pair cap for the current year.
func (s *Service) SetMaxAllowed(ctx context.Context, customerID, requestorID id.UserID, maxAllowed int) (*models.RequestorCount, error) {
	if customerID.IsNil() || requestorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "customer and requestor are required")
	}
	if maxAllowed <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "max allowed requests must be positive")
	}

	rec, err := s.store.SetMaxAllowed(ctx, models.NewKey(customerID, requestorID, currentYear(ctx)), maxAllowed)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to set quota cap")
	}
	s.logger.InfoContext(ctx, "quota_cap_updated",
		"event", "quota_cap_updated",
		"log_type", "audit",
		"customer_id", customerID,
		"requestor_id", requestorID,
		"max_allowed", maxAllowed,
		"request_id", requestcontext.RequestID(ctx),
	)
	return rec.ToRequestorCount(), nil
}

func (s *Service) listForCustomer(ctx context.Context, customerID id.UserID, year int) ([]*models.QuotaRecord, error) {
	recs, err := s.store.ListByCustomer(ctx, customerID, year)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list quota records")
	}
	if len(recs) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no quota records for customer")
	}
	return recs, nil
}
