package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	txcontext "veriflow/pkg/platform/tx"
)

const (
	requestsTable = "verification_requests"
	historyTable  = "status_history"

	pgUniqueViolation = "23505"
)

var requestColumns = []string{
	"id",
	"customer_id",
	"requestor_id",
	"assigned_officer_id",
	"status",
	"request_reason",
	"created_at",
	"updated_at",
	"approved_at",
	"rejected_at",
}

var historyColumns = []string{
	"id",
	"verification_request_id",
	"from_status",
	"to_status",
	"changed_by",
	"reason",
	"changed_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists requests and history in PostgreSQL. Every method
// joins the transaction carried by ctx when there is one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateRequest(ctx context.Context, req *models.VerificationRequest) error {
	query, args, err := psql.Insert(requestsTable).
		Columns(requestColumns...).
		Values(
			uuid.UUID(req.ID),
			uuid.UUID(req.CustomerID),
			uuid.UUID(req.RequestorID),
			officerParam(req.AssignedOfficerID),
			string(req.Status),
			req.RequestReason,
			req.CreatedAt,
			req.UpdatedAt,
			req.ApprovedAt,
			req.RejectedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build request insert: %w", err)
	}

	if _, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert verification request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindRequest(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error) {
	return s.findRequest(ctx, requestID, false)
}

func (s *PostgresStore) FindRequestForUpdate(ctx context.Context, requestID id.VerificationRequestID) (*models.VerificationRequest, error) {
	return s.findRequest(ctx, requestID, true)
}

func (s *PostgresStore) findRequest(ctx context.Context, requestID id.VerificationRequestID, forUpdate bool) (*models.VerificationRequest, error) {
	builder := psql.Select(requestColumns...).
		From(requestsTable).
		Where(sq.Eq{"id": uuid.UUID(requestID)})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build request select: %w", err)
	}

	req, err := scanRequest(txcontext.QuerierFrom(ctx, s.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification request: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) UpdateRequest(ctx context.Context, req *models.VerificationRequest) error {
	query, args, err := psql.Update(requestsTable).
		Set("assigned_officer_id", officerParam(req.AssignedOfficerID)).
		Set("status", string(req.Status)).
		Set("updated_at", req.UpdatedAt).
		Set("approved_at", req.ApprovedAt).
		Set("rejected_at", req.RejectedAt).
		Where(sq.Eq{"id": uuid.UUID(req.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build request update: %w", err)
	}

	tag, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update verification request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListActiveByOfficers(ctx context.Context, officerIDs []id.UserID, status models.Status) (map[id.UserID][]id.VerificationRequestID, error) {
	out := make(map[id.UserID][]id.VerificationRequestID, len(officerIDs))
	if len(officerIDs) == 0 {
		return out, nil
	}
	officers := make([]uuid.UUID, len(officerIDs))
	for i, o := range officerIDs {
		officers[i] = uuid.UUID(o)
	}

	query, args, err := psql.Select("assigned_officer_id", "id").
		From(requestsTable).
		Where(sq.Eq{"status": string(status)}).
		Where("assigned_officer_id = ANY(?)", officers).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build workload query: %w", err)
	}

	rows, err := txcontext.QuerierFrom(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query officer workload: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var officer, requestID uuid.UUID
		if err := rows.Scan(&officer, &requestID); err != nil {
			return nil, fmt.Errorf("scan officer workload: %w", err)
		}
		key := id.UserID(officer)
		out[key] = append(out[key], id.VerificationRequestID(requestID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate officer workload: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	var from *string
	if entry.FromStatus != nil {
		f := string(*entry.FromStatus)
		from = &f
	}
	query, args, err := psql.Insert(historyTable).
		Columns(historyColumns...).
		Values(
			uuid.UUID(entry.ID),
			uuid.UUID(entry.VerificationRequestID),
			from,
			string(entry.ToStatus),
			uuid.UUID(entry.ChangedBy),
			entry.Reason,
			entry.ChangedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build history insert: %w", err)
	}
	if _, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListHistory breaks ChangedAt ties by insertion sequence.
func (s *PostgresStore) ListHistory(ctx context.Context, requestID id.VerificationRequestID) ([]*models.StatusHistoryEntry, error) {
	query, args, err := psql.Select(historyColumns...).
		From(historyTable).
		Where(sq.Eq{"verification_request_id": uuid.UUID(requestID)}).
		OrderBy("changed_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history select: %w", err)
	}

	rows, err := txcontext.QuerierFrom(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var out []*models.StatusHistoryEntry
	for rows.Next() {
		var (
			entry     models.StatusHistoryEntry
			entryID   uuid.UUID
			requestID uuid.UUID
			changedBy uuid.UUID
			from      *string
			to        string
		)
		if err := rows.Scan(&entryID, &requestID, &from, &to, &changedBy, &entry.Reason, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entry.ID = id.HistoryEntryID(entryID)
		entry.VerificationRequestID = id.VerificationRequestID(requestID)
		entry.ChangedBy = id.UserID(changedBy)
		entry.ToStatus = models.Status(to)
		if from != nil {
			f := models.Status(*from)
			entry.FromStatus = &f
		}
		out = append(out, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}
	return out, nil
}

func officerParam(officer *id.UserID) *uuid.UUID {
	if officer == nil {
		return nil
	}
	u := uuid.UUID(*officer)
	return &u
}

func scanRequest(row pgx.Row) (*models.VerificationRequest, error) {
	var (
		req         models.VerificationRequest
		reqID       uuid.UUID
		customerID  uuid.UUID
		requestorID uuid.UUID
		officerID   *uuid.UUID
		status      string
		approvedAt  *time.Time
		rejectedAt  *time.Time
	)
	if err := row.Scan(
		&reqID,
		&customerID,
		&requestorID,
		&officerID,
		&status,
		&req.RequestReason,
		&req.CreatedAt,
		&req.UpdatedAt,
		&approvedAt,
		&rejectedAt,
	); err != nil {
		return nil, err
	}
	req.ID = id.VerificationRequestID(reqID)
	req.CustomerID = id.UserID(customerID)
	req.RequestorID = id.UserID(requestorID)
	req.Status = models.Status(status)
	req.ApprovedAt = approvedAt
	req.RejectedAt = rejectedAt
	if officerID != nil {
		o := id.UserID(*officerID)
		req.AssignedOfficerID = &o
	}
	return &req, nil
}
