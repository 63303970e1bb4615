// Package assignment picks the least-loaded verification officer for a
// request. Workloads are scored at call time from the officer's requests
// awaiting review and the documents attached to them.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"veriflow/internal/lifecycle/events"
	"veriflow/internal/lifecycle/metrics"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/audit"
	"veriflow/pkg/platform/notification"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

// NoOfficer is the audit old value for a request that had no officer.
const NoOfficer = "no officer"

const (
	defaultDocumentConcurrency = 8
	assignmentReason           = "assigned to officer automatically"
)

type Engine struct {
	store       ports.Store
	tx          ports.StoreTx
	users       ports.UserDirectory
	documents   ports.DocumentInventory
	emitter     *events.Emitter
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
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

// WithDocumentConcurrency bounds the per-request document lookups used when
// the inventory cannot summarize in batch.
func WithDocumentConcurrency(n int) Option {
	return func(engine *Engine) {
		if n > 0 {
			engine.concurrency = n
		}
	}
}

func New(store ports.Store, tx ports.StoreTx, users ports.UserDirectory, documents ports.DocumentInventory, opts ...Option) (*Engine, error) {
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
	engine := &Engine{
		store:       store,
		tx:          tx,
		users:       users,
		documents:   documents,
		logger:      slog.Default(),
		concurrency: defaultDocumentConcurrency,
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.emitter == nil {
		engine.emitter = events.NewEmitter(events.WithLogger(engine.logger))
	}
	return engine, nil
}

// Workloads scores every verification officer, in directory order.
func (e *Engine) Workloads(ctx context.Context) ([]models.OfficerWorkload, error) {
	officers, err := e.users.FindByRole(ctx, models.RoleVerificationOfficer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verification officers")
	}
	if len(officers) == 0 {
		return nil, dErrors.New(dErrors.CodeNoOfficersAvailable, "no verification officers available")
	}

	officerIDs := make([]id.UserID, len(officers))
	for i, officer := range officers {
		officerIDs[i] = officer.ID
	}
	active, err := e.store.ListActiveByOfficers(ctx, officerIDs, models.StatusDocumentUploaded)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer workloads")
	}

	var requestIDs []id.VerificationRequestID
	for _, officerID := range officerIDs {
		requestIDs = append(requestIDs, active[officerID]...)
	}
	totals, err := e.documentTotals(ctx, requestIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer documents")
	}

	workloads := make([]models.OfficerWorkload, len(officerIDs))
	for i, officerID := range officerIDs {
		w := models.OfficerWorkload{OfficerID: officerID, ActiveRequests: len(active[officerID])}
		for _, reqID := range active[officerID] {
			w.TotalDocuments += totals[reqID].Count
			w.TotalBytes += totals[reqID].TotalBytes
		}
		workloads[i] = w
	}
	return workloads, nil
}

// SelectOfficer returns the officer with the lowest score. Ties go to the
// officer the directory listed first.
func (e *Engine) SelectOfficer(ctx context.Context) (models.OfficerWorkload, error) {
	workloads, err := e.Workloads(ctx)
	if err != nil {
		return models.OfficerWorkload{}, err
	}
	best := workloads[0]
	for _, w := range workloads[1:] {
		if w.Score() < best.Score() {
			best = w
		}
	}
	return best, nil
}

// AssignAutomatically gives the request to the least-loaded officer and moves
// it to IN_REVIEW. actorID is the user whose action triggered the assignment;
// a nil actor records the chosen officer. A request that already has an
// officer is returned unchanged.
func (e *Engine) AssignAutomatically(ctx context.Context, requestID id.VerificationRequestID, actorID id.UserID) (*models.VerificationRequest, error) {
	start := time.Now()
	defer e.metrics.ObserveAssignmentDuration(start)

	chosen, err := e.SelectOfficer(ctx)
	if err != nil {
		return nil, err
	}
	if actorID.IsNil() {
		actorID = chosen.OfficerID
	}

	var (
		result          *models.VerificationRequest
		alreadyAssigned bool
	)
	err = e.tx.RunInTx(ctx, requestID, func(ctx context.Context, store ports.Store) error {
		req, err := store.FindRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "verification request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification request")
		}
		if req.HasOfficer() {
			alreadyAssigned = true
			result = req
			return nil
		}

		now := requestcontext.Now(ctx)
		req.AssignOfficer(chosen.OfficerID, now)
		previous := req.ApplyStatus(models.StatusInReview, now)
		if err := store.UpdateRequest(ctx, req); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign officer")
		}
		entry := models.NewHistoryEntry(req.ID, previous, models.StatusInReview, actorID, assignmentReason, now)
		if err := store.AppendHistory(ctx, entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append status history")
		}
		result = req
		return nil
	})
	if err != nil {
		if _, ok := dErrors.CodeOf(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "officer assignment failed")
	}
	if alreadyAssigned {
		e.logger.InfoContext(ctx, "verification request already assigned",
			"verification_request_id", requestID.String(),
			"officer_id", result.AssignedOfficerID.String(),
		)
		return result, nil
	}

	e.metrics.IncrementAssignment("automatic")
	e.logger.InfoContext(ctx, "officer assigned automatically",
		"verification_request_id", requestID.String(),
		"officer_id", chosen.OfficerID.String(),
		"score", chosen.Score(),
		"active_requests", chosen.ActiveRequests,
	)
	e.emitter.Audit(ctx, audit.EventVerificationRequestAssigned, result, actorID, NoOfficer, chosen.OfficerID.String())
	e.emitter.Notify(ctx, chosen.OfficerID, result, notification.MessageAssignedToOfficer)
	return result, nil
}

// documentTotals uses the batch summary when the inventory offers one and
// otherwise fans out one lookup per request.
func (e *Engine) documentTotals(ctx context.Context, requestIDs []id.VerificationRequestID) (map[id.VerificationRequestID]models.DocumentTotals, error) {
	if len(requestIDs) == 0 {
		return map[id.VerificationRequestID]models.DocumentTotals{}, nil
	}
	if batch, ok := e.documents.(ports.BatchDocumentInventory); ok {
		return batch.SummarizeByRequests(ctx, requestIDs)
	}

	results := make([]models.DocumentTotals, len(requestIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, reqID := range requestIDs {
		g.Go(func() error {
			docs, err := e.documents.FindByVerificationRequestID(gctx, reqID)
			if err != nil {
				return fmt.Errorf("documents for %s: %w", reqID, err)
			}
			for _, doc := range docs {
				results[i].Add(doc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := make(map[id.VerificationRequestID]models.DocumentTotals, len(requestIDs))
	for i, reqID := range requestIDs {
		totals[reqID] = results[i]
	}
	return totals, nil
}
