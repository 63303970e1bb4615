package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"

	"veriflow/pkg/platform/circuit"
	"veriflow/pkg/platform/outbox"
)

const (
	defaultBatchSize   = 100
	defaultInterval    = time.Second
	defaultMaxInterval = 30 * time.Second
)

// Dispatcher drains pending outbox messages to a Deliverer. Delivery is
// at-least-once: a crash between Deliver and MarkDelivered redelivers the batch.
type Dispatcher struct {
	store     outbox.Store
	deliverer outbox.Deliverer
	logger    *slog.Logger
	metrics   *Metrics
	breaker   *circuit.Breaker

	batchSize   int
	interval    time.Duration
	maxInterval time.Duration
	now         func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithInterval sets the idle poll interval and the ceiling for failure backoff.
func WithInterval(interval, maxInterval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.interval = interval
		}
		if maxInterval >= d.interval {
			d.maxInterval = maxInterval
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(d *Dispatcher) {
		d.breaker = b
	}
}

func NewDispatcher(store outbox.Store, deliverer outbox.Deliverer, opts ...Option) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("outbox store is required")
	}
	if deliverer == nil {
		return nil, errors.New("outbox deliverer is required")
	}
	d := &Dispatcher{
		store:       store,
		deliverer:   deliverer,
		logger:      slog.Default(),
		breaker:     circuit.New("outbox-deliverer"),
		batchSize:   defaultBatchSize,
		interval:    defaultInterval,
		maxInterval: defaultMaxInterval,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run dispatches until ctx is cancelled. Failed cycles back off exponentially.
func (d *Dispatcher) Run(ctx context.Context) error {
	b := &backoff.Backoff{
		Min:    d.interval,
		Max:    d.maxInterval,
		Factor: 2,
		Jitter: true,
	}

	for {
		n, err := d.DispatchOnce(ctx)
		wait := d.interval
		switch {
		case err != nil:
			wait = b.Duration()
			d.logger.WarnContext(ctx, "outbox dispatch failed",
				"error", err,
				"retry_in", wait.String(),
			)
		case n == d.batchSize:
			b.Reset()
			wait = 0
		default:
			b.Reset()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// DispatchOnce delivers one batch and returns how many messages were delivered.
// While the breaker is open only the oldest message is sent as a probe.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	limit := d.batchSize
	if d.breaker.IsOpen() {
		limit = 1
	}

	msgs, err := d.store.FetchPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("fetch pending outbox messages: %w", err)
	}
	d.metrics.observeBatch(len(msgs))
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := d.deliverer.Deliver(ctx, msgs); err != nil {
		d.metrics.incFailures()
		for _, m := range msgs {
			if markErr := d.store.MarkFailed(ctx, m.ID, err.Error()); markErr != nil {
				d.logger.ErrorContext(ctx, "failed to record outbox delivery failure",
					"message_id", m.ID.String(),
					"error", markErr,
				)
			}
		}
		if _, change := d.breaker.RecordFailure(); change.Opened {
			d.metrics.setBreakerOpen(true)
			d.logger.ErrorContext(ctx, "outbox deliverer circuit opened", "breaker", d.breaker.Name())
		}
		return 0, fmt.Errorf("deliver outbox batch: %w", err)
	}

	ids := make([]uuid.UUID, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	if err := d.store.MarkDelivered(ctx, ids, d.now()); err != nil {
		return 0, fmt.Errorf("mark outbox batch delivered: %w", err)
	}
	if _, change := d.breaker.RecordSuccess(); change.Closed {
		d.metrics.setBreakerOpen(false)
		d.logger.InfoContext(ctx, "outbox deliverer circuit closed", "breaker", d.breaker.Name())
	}
	d.metrics.addDelivered(len(msgs))
	return len(msgs), nil
}
