package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"veriflow/internal/lifecycle/assignment"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

// CreateVerificationRequest opens a PENDING request from requestor to
// customer. The quota increment and event emission after commit are best
// effort.
func (s *Service) CreateVerificationRequest(ctx context.Context, customerID, requestorID id.UserID, reason string) (result *models.RequestSummary, err error) {
	ctx, end := s.startSpan(ctx, "CreateVerificationRequest",
		attribute.String("customer_id", customerID.String()),
		attribute.String("requestor_id", requestorID.String()),
	)
	defer func() { end(err) }()

	if _, err := s.resolveUser(ctx, customerID, "customer", ""); err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, requestorID, "requestor", ""); err != nil {
		return nil, err
	}

	allowed, err := s.quota.CanCreate(ctx, customerID, requestorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check request quota")
	}
	if !allowed {
		return nil, dErrors.New(dErrors.CodeLimitExceeded, "verification request limit reached for this customer")
	}

	now := requestcontext.Now(ctx)
	req := models.NewVerificationRequest(customerID, requestorID, reason, now)
	err = s.tx.RunInTx(ctx, req.ID, func(ctx context.Context, store ports.Store) error {
		if err := store.CreateRequest(ctx, req); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "verification request already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create verification request")
		}
		entry := models.NewHistoryEntry(req.ID, "", models.StatusPending, requestorID, reason, now)
		if err := store.AppendHistory(ctx, entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append status history")
		}
		return nil
	})
	if err != nil {
		return nil, translateTxError(err, "verification request creation failed")
	}
	s.metrics.IncrementRequestsCreated()

	if _, qerr := s.quota.IncrementRequestCount(ctx, customerID, requestorID); qerr != nil {
		s.logger.WarnContext(ctx, "failed to increment request quota",
			"verification_request_id", req.ID.String(),
			"customer_id", customerID.String(),
			"requestor_id", requestorID.String(),
			"error", qerr,
		)
	}

	s.emitter.Audit(ctx, audit.EventVerificationRequestCreated, req, requestorID, "", string(models.StatusPending))
	s.transitions.NotifyForStatus(ctx, req)
	return req.Summary(), nil
}

// UpdateStatus lets the assigned officer move the request to newStatus.
func (s *Service) UpdateStatus(ctx context.Context, requestID id.VerificationRequestID, officerID id.UserID, newStatus models.Status, reason string) (result *models.RequestSummary, err error) {
	ctx, end := s.startSpan(ctx, "UpdateStatus",
		attribute.String("verification_request_id", requestID.String()),
		attribute.String("to_status", string(newStatus)),
	)
	defer func() { end(err) }()

	req, err := s.transitions.ApplyTransition(ctx, requestID, officerID, newStatus, reason)
	if err != nil {
		return nil, err
	}
	return req.Summary(), nil
}

// AssignToOfficer hands the request to officerID without changing its status.
func (s *Service) AssignToOfficer(ctx context.Context, requestID id.VerificationRequestID, officerID id.UserID) (result *models.RequestSummary, err error) {
	ctx, end := s.startSpan(ctx, "AssignToOfficer",
		attribute.String("verification_request_id", requestID.String()),
		attribute.String("officer_id", officerID.String()),
	)
	defer func() { end(err) }()

	if _, err := s.loadRequest(ctx, requestID); err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, officerID, "officer", models.RoleVerificationOfficer); err != nil {
		return nil, err
	}

	var (
		updated  *models.VerificationRequest
		previous *id.UserID
	)
	err = s.tx.RunInTx(ctx, requestID, func(ctx context.Context, store ports.Store) error {
		req, err := store.FindRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "verification request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification request")
		}
		previous = req.AssignOfficer(officerID, requestcontext.Now(ctx))
		if err := store.UpdateRequest(ctx, req); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign officer")
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, translateTxError(err, "officer assignment failed")
	}
	s.metrics.IncrementAssignment("manual")

	oldValue := assignment.NoOfficer
	if previous != nil {
		oldValue = previous.String()
	}
	actorID := requestcontext.UserID(ctx)
	if actorID.IsNil() {
		actorID = officerID
	}
	s.emitter.Audit(ctx, audit.EventVerificationRequestReassigned, updated, actorID, oldValue, officerID.String())
	s.emitter.Notify(ctx, officerID, updated, notification.MessageAssignedToOfficer)
	return updated.Summary(), nil
}

// RecordDocumentUpload marks the customer's upload on the request and, when
// no officer holds the request yet, assigns the least-loaded one. A failed
// automatic assignment leaves the upload recorded.
func (s *Service) RecordDocumentUpload(ctx context.Context, requestID id.VerificationRequestID, customerID id.UserID) (result *models.RequestSummary, err error) {
	ctx, end := s.startSpan(ctx, "RecordDocumentUpload",
		attribute.String("verification_request_id", requestID.String()),
	)
	defer func() { end(err) }()

	req, err := s.transitions.ApplyDocumentUpload(ctx, requestID, customerID)
	if err != nil {
		return nil, err
	}
	if req.HasOfficer() {
		return req.Summary(), nil
	}

	assigned, aerr := s.assigner.AssignAutomatically(ctx, requestID, customerID)
	if aerr != nil {
		s.logger.WarnContext(ctx, "automatic officer assignment failed",
			"verification_request_id", requestID.String(),
			"error", aerr,
		)
		return req.Summary(), nil
	}
	return assigned.Summary(), nil
}

// GetLatestStatus returns the request's current status.
func (s *Service) GetLatestStatus(ctx context.Context, requestID id.VerificationRequestID) (models.Status, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	return req.Status, nil
}

// GetStatusHistory returns the request's history, most recent first.
func (s *Service) GetStatusHistory(ctx context.Context, requestID id.VerificationRequestID) ([]*models.StatusHistoryEntry, error) {
	entries, err := s.store.ListHistory(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status history")
	}
	if len(entries) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no status history for verification request")
	}
	return entries, nil
}
