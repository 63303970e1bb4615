// Package transition moves verification requests between statuses. Each
// move updates the request and appends a history entry in one transaction;
// audit events and notifications follow after commit.
package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"veriflow/internal/lifecycle/events"
	"veriflow/internal/lifecycle/metrics"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

type Engine struct {
	tx      ports.StoreTx
	emitter *events.Emitter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Engine)

func WithEmitter(e *events.Emitter) Option {
	return func(engine *Engine) {
		engine.emitter = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(engine *Engine) {
		engine.metrics = m
	}
}

func New(tx ports.StoreTx, opts ...Option) (*Engine, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	engine := &Engine{
		tx:     tx,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.emitter == nil {
		engine.emitter = events.NewEmitter(events.WithLogger(engine.logger))
	}
	return engine, nil
}

// ApplyTransition lets the assigned officer move a request to newStatus.
// Any valid status is reachable from any other.
func (e *Engine) ApplyTransition(ctx context.Context, requestID id.VerificationRequestID, actorID id.UserID, newStatus models.Status, reason string) (*models.VerificationRequest, error) {
	if !newStatus.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown status: "+string(newStatus))
	}

	updated, previous, err := e.move(ctx, requestID, func(req *models.VerificationRequest) (models.Status, error) {
		if !req.HasOfficer() {
			return "", dErrors.New(dErrors.CodeInvalidOperation, "verification request has no assigned officer")
		}
		if !req.IsAssignedTo(actorID) {
			return "", dErrors.New(dErrors.CodeInvalidOperation, "only the assigned officer can change the status")
		}
		return newStatus, nil
	}, actorID, reason)
	if err != nil {
		return nil, err
	}

	e.emitter.Audit(ctx, audit.EventVerificationStatusChanged, updated, *updated.AssignedOfficerID, string(previous), string(updated.Status))
	e.NotifyForStatus(ctx, updated)
	return updated, nil
}

// ApplyDocumentUpload records that the request's customer uploaded documents.
// A SENT_BACK request becomes DOCUMENT_UPDATED; anything else becomes
// DOCUMENT_UPLOADED.
func (e *Engine) ApplyDocumentUpload(ctx context.Context, requestID id.VerificationRequestID, customerID id.UserID) (*models.VerificationRequest, error) {
	updated, previous, err := e.move(ctx, requestID, func(req *models.VerificationRequest) (models.Status, error) {
		if req.CustomerID != customerID {
			return "", dErrors.New(dErrors.CodeInvalidOperation, "only the request's customer can upload documents")
		}
		return models.StatusAfterUpload(req.Status), nil
	}, customerID, "documents uploaded")
	if err != nil {
		return nil, err
	}

	e.emitter.Audit(ctx, audit.EventVerificationStatusChanged, updated, customerID, string(previous), string(updated.Status))
	e.NotifyForStatus(ctx, updated)
	return updated, nil
}

// NotifyForStatus sends the notifications routed for the request's current status.
func (e *Engine) NotifyForStatus(ctx context.Context, req *models.VerificationRequest) {
	message, recipients := recipientsFor(req)
	for _, recipient := range recipients {
		e.emitter.Notify(ctx, recipient, req, message)
	}
}

// move locks the request, asks decide for the target status and persists the
// change with its history entry. decide runs inside the transaction so
// authorization sees the locked row.
func (e *Engine) move(
	ctx context.Context,
	requestID id.VerificationRequestID,
	decide func(req *models.VerificationRequest) (models.Status, error),
	actorID id.UserID,
	reason string,
) (*models.VerificationRequest, models.Status, error) {
	var (
		updated  *models.VerificationRequest
		previous models.Status
	)
	err := e.tx.RunInTx(ctx, requestID, func(ctx context.Context, store ports.Store) error {
		req, err := store.FindRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "verification request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification request")
		}

		target, err := decide(req)
		if err != nil {
			return err
		}

		now := requestcontext.Now(ctx)
		previous = req.ApplyStatus(target, now)
		if err := store.UpdateRequest(ctx, req); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification request")
		}
		entry := models.NewHistoryEntry(req.ID, previous, target, actorID, reason, now)
		if err := store.AppendHistory(ctx, entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append status history")
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, "", asDomainError(err)
	}

	e.metrics.IncrementTransition(string(updated.Status))
	e.logger.InfoContext(ctx, "verification status changed",
		"verification_request_id", requestID.String(),
		"actor_id", actorID.String(),
		"from_status", string(previous),
		"to_status", string(updated.Status),
	)
	return updated, previous, nil
}

// asDomainError keeps coded errors and classifies anything else as internal.
func asDomainError(err error) error {
	if _, ok := dErrors.CodeOf(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "verification request transaction failed")
}
