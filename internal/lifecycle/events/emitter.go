// Package events emits lifecycle audit events and notifications. Emission is
// best effort: failures are logged and counted, never returned.
package events

import (
	"context"
	"log/slog"

	"veriflow/internal/lifecycle/metrics"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
	"veriflow/pkg/requestcontext"
)

const (
	sinkAudit        = "audit"
	sinkNotification = "notification"
)

type Emitter struct {
	audit    ports.AuditPublisher
	notifier ports.NotificationPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Emitter)

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(e *Emitter) {
		e.audit = p
	}
}

func WithNotificationPublisher(p ports.NotificationPublisher) Option {
	return func(e *Emitter) {
		e.notifier = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// NewEmitter builds an emitter. Without publishers it only writes audit log lines.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Audit records action on req, both as a structured audit log line and as
// an event for the audit publisher.
func (e *Emitter) Audit(ctx context.Context, action audit.AuditEvent, req *models.VerificationRequest, actorID id.UserID, oldValue, newValue string) {
	e.logAudit(ctx, string(action),
		"verification_request_id", req.ID.String(),
		"actor_id", actorID.String(),
		"old_value", oldValue,
		"new_value", newValue,
	)
	if e.audit == nil {
		return
	}
	err := e.audit.Emit(ctx, audit.Event{
		EntityType: audit.EntityVerificationRequest,
		EntityID:   req.ID.String(),
		Action:     action,
		ActorID:    actorID.String(),
		OldValue:   oldValue,
		NewValue:   newValue,
	})
	if err != nil {
		e.metrics.IncrementEmitFailure(sinkAudit)
		e.logger.WarnContext(ctx, "failed to emit audit event",
			"action", string(action),
			"verification_request_id", req.ID.String(),
			"error", err,
		)
	}
}

// Notify sends message about req to recipient.
func (e *Emitter) Notify(ctx context.Context, recipient id.UserID, req *models.VerificationRequest, message string) {
	if e.notifier == nil {
		return
	}
	err := e.notifier.Notify(ctx, notification.Notification{
		RecipientID:           recipient.String(),
		VerificationRequestID: req.ID.String(),
		Message:               message,
		Status:                string(req.Status),
	})
	if err != nil {
		e.metrics.IncrementEmitFailure(sinkNotification)
		e.logger.WarnContext(ctx, "failed to emit notification",
			"recipient_id", recipient.String(),
			"verification_request_id", req.ID.String(),
			"message", message,
			"error", err,
		)
	}
}

func (e *Emitter) logAudit(ctx context.Context, event string, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	if e.logger != nil {
		e.logger.InfoContext(ctx, event, args...)
	}
}
