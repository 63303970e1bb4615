// Package service orchestrates the verification request lifecycle. It owns
// the transition and assignment engines and delegates quota bookkeeping to
// the limiter; only the primary mutation of each operation can fail a call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"veriflow/internal/lifecycle/assignment"
	"veriflow/internal/lifecycle/events"
	"veriflow/internal/lifecycle/metrics"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	"veriflow/internal/lifecycle/transition"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/sentinel"
)

const tracerName = "veriflow/lifecycle"

type Service struct {
	store       ports.Store
	tx          ports.StoreTx
	users       ports.UserDirectory
	documents   ports.DocumentInventory
	quota       ports.QuotaLimiter
	transitions *transition.Engine
	assigner    *assignment.Engine
	emitter     *events.Emitter

	auditPublisher        ports.AuditPublisher
	notificationPublisher ports.NotificationPublisher
	logger                *slog.Logger
	metrics               *metrics.Metrics
	tracer                trace.Tracer
	documentConcurrency   int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

func WithNotificationPublisher(p ports.NotificationPublisher) Option {
	return func(s *Service) {
		s.notificationPublisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithDocumentConcurrency(n int) Option {
	return func(s *Service) {
		s.documentConcurrency = n
	}
}

func New(
	store ports.Store,
	tx ports.StoreTx,
	users ports.UserDirectory,
	documents ports.DocumentInventory,
	quota ports.QuotaLimiter,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("verification request store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document inventory is required")
	}
	if quota == nil {
		return nil, fmt.Errorf("quota limiter is required")
	}

	svc := &Service{
		store:     store,
		tx:        tx,
		users:     users,
		documents: documents,
		quota:     quota,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}

	emitterOpts := []events.Option{events.WithLogger(svc.logger), events.WithMetrics(svc.metrics)}
	if svc.auditPublisher != nil {
		emitterOpts = append(emitterOpts, events.WithAuditPublisher(svc.auditPublisher))
	}
	if svc.notificationPublisher != nil {
		emitterOpts = append(emitterOpts, events.WithNotificationPublisher(svc.notificationPublisher))
	}
	svc.emitter = events.NewEmitter(emitterOpts...)

	transitions, err := transition.New(tx,
		transition.WithEmitter(svc.emitter),
		transition.WithLogger(svc.logger),
		transition.WithMetrics(svc.metrics),
	)
	if err != nil {
		return nil, err
	}
	assigner, err := assignment.New(store, tx, users, documents,
		assignment.WithEmitter(svc.emitter),
		assignment.WithLogger(svc.logger),
		assignment.WithMetrics(svc.metrics),
		assignment.WithDocumentConcurrency(svc.documentConcurrency),
	)
	if err != nil {
		return nil, err
	}
	svc.transitions = transitions
	svc.assigner = assigner
	return svc, nil
}

// startSpan opens a span for op. end records err on the span before closing it.
func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	ctx, span := s.tracer.Start(ctx, "lifecycle."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// resolveUser loads a user and requires role when one is given.
func (s *Service) resolveUser(ctx context.Context, userID id.UserID, label string, role models.Role) (*models.User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, label+" id is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, label+" not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+label)
	}
	if role != "" && user.Role != role {
		return nil, dErrors.New(dErrors.CodeValidation, label+" does not have role "+string(role))
	}
	return user, nil
}

func (s *Service) loadRequest(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error) {
	req, err := s.store.FindRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification request")
	}
	return req, nil
}

func translateTxError(err error, msg string) error {
	if _, ok := dErrors.CodeOf(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
