package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	txcontext "veriflow/pkg/platform/tx"
	"veriflow/pkg/requestcontext"
)

const quotaTable = "quota_records"

var quotaColumns = []string{
	"customer_id",
	"requestor_id",
	"year",
	"request_count",
	"total_requests",
	"max_allowed_requests",
	"created_at",
	"updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists quota records in PostgreSQL. Increment is a single
// upsert so concurrent creators for the same pair never lose an update.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key models.Key) (*models.QuotaRecord, error) {
	query, args, err := psql.Select(quotaColumns...).
		From(quotaTable).
		Where(sq.Eq{
			"customer_id":  uuid.UUID(key.CustomerID),
			"requestor_id": uuid.UUID(key.RequestorID),
			"year":         key.Year,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quota select: %w", err)
	}

	rec, err := scanRecord(txcontext.QuerierFrom(ctx, s.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get quota record: %w", err)
	}
	return rec, nil
}

// Increment applies the rolling rule inside the ON CONFLICT branch. $6 is the
// rolling cap and $7 disables the reset.
func (s *PostgresStore) Increment(ctx context.Context, key models.Key, policy models.Policy) (*models.QuotaRecord, error) {
	query := `
		INSERT INTO quota_records (
			customer_id, requestor_id, year,
			request_count, total_requests, max_allowed_requests,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, 1, 1, $4, $5, $5)
		ON CONFLICT (customer_id, requestor_id, year) DO UPDATE SET
			request_count = CASE
				WHEN NOT $7::boolean AND quota_records.request_count >= $6::int THEN 1
				ELSE quota_records.request_count + 1
			END,
			total_requests = quota_records.total_requests + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING customer_id, requestor_id, year, request_count, total_requests,
			max_allowed_requests, created_at, updated_at
	`
	row := txcontext.QuerierFrom(ctx, s.pool).QueryRow(ctx, query,
		uuid.UUID(key.CustomerID),
		uuid.UUID(key.RequestorID),
		key.Year,
		policy.DefaultMaxAllowed,
		requestcontext.Now(ctx),
		policy.RollingCap,
		policy.BlockOnRollingCap,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("increment quota record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByCustomer(ctx context.Context, customerID id.UserID, year int) ([]*models.QuotaRecord, error) {
	query, args, err := psql.Select(quotaColumns...).
		From(quotaTable).
		Where(sq.Eq{"customer_id": uuid.UUID(customerID), "year": year}).
		OrderBy("created_at ASC", "requestor_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quota list: %w", err)
	}

	rows, err := txcontext.QuerierFrom(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quota records: %w", err)
	}
	defer rows.Close()

	var out []*models.QuotaRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quota record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quota records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetMaxAllowed(ctx context.Context, key models.Key, maxAllowed int) (*models.QuotaRecord, error) {
	now := requestcontext.Now(ctx)
	query, args, err := psql.Insert(quotaTable).
		Columns(quotaColumns...).
		Values(uuid.UUID(key.CustomerID), uuid.UUID(key.RequestorID), key.Year, 0, 0, maxAllowed, now, now).
		Suffix(`ON CONFLICT (customer_id, requestor_id, year) DO UPDATE SET
			max_allowed_requests = EXCLUDED.max_allowed_requests,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + strings.Join(quotaColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quota upsert: %w", err)
	}

	rec, err := scanRecord(txcontext.QuerierFrom(ctx, s.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("set quota max allowed: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*models.QuotaRecord, error) {
	var (
		rec         models.QuotaRecord
		customerID  uuid.UUID
		requestorID uuid.UUID
	)
	if err := row.Scan(
		&customerID,
		&requestorID,
		&rec.Year,
		&rec.RequestCount,
		&rec.TotalRequests,
		&rec.MaxAllowedRequests,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.CustomerID = id.UserID(customerID)
	rec.RequestorID = id.UserID(requestorID)
	return &rec, nil
}
