package adapters

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	txcontext "veriflow/pkg/platform/tx"
)

// PostgresDocumentInventory reads document metadata from the documents table.
// Binary storage is handled by the document service.
type PostgresDocumentInventory struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentInventory(pool *pgxpool.Pool) *PostgresDocumentInventory {
	return &PostgresDocumentInventory{pool: pool}
}

func (i *PostgresDocumentInventory) FindByVerificationRequestID(ctx context.Context, requestID id.VerificationRequestID) ([]models.DocumentSummary, error) {
	query, args, err := psql.Select("size_bytes", "status").
		From("documents").
		Where(sq.Eq{"verification_request_id": uuid.UUID(requestID)}).
		OrderBy("uploaded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build documents select: %w", err)
	}
	rows, err := txcontext.QuerierFrom(ctx, i.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []models.DocumentSummary
	for rows.Next() {
		var doc models.DocumentSummary
		if err := rows.Scan(&doc.SizeBytes, &doc.Status); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// SummarizeByRequests aggregates counts and sizes with one GROUP BY. Requests
// without documents are present with zero totals.
func (i *PostgresDocumentInventory) SummarizeByRequests(ctx context.Context, requestIDs []id.VerificationRequestID) (map[id.VerificationRequestID]models.DocumentTotals, error) {
	out := make(map[id.VerificationRequestID]models.DocumentTotals, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(requestIDs))
	for idx, r := range requestIDs {
		ids[idx] = uuid.UUID(r)
		out[r] = models.DocumentTotals{}
	}

	query, args, err := psql.Select("verification_request_id", "COUNT(*)", "COALESCE(SUM(size_bytes), 0)").
		From("documents").
		Where("verification_request_id = ANY(?)", ids).
		GroupBy("verification_request_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build documents summary: %w", err)
	}
	rows, err := txcontext.QuerierFrom(ctx, i.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			reqID uuid.UUID
			count int64
			total int64
		)
		if err := rows.Scan(&reqID, &count, &total); err != nil {
			return nil, fmt.Errorf("scan documents summary: %w", err)
		}
		out[id.VerificationRequestID(reqID)] = models.DocumentTotals{Count: int(count), TotalBytes: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents summary: %w", err)
	}
	return out, nil
}

// Add records document metadata. Used by seeding and tests.
func (i *PostgresDocumentInventory) Add(ctx context.Context, requestID id.VerificationRequestID, doc models.DocumentSummary) error {
	query, args, err := psql.Insert("documents").
		Columns("id", "verification_request_id", "size_bytes", "status").
		Values(uuid.New(), uuid.UUID(requestID), doc.SizeBytes, doc.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build document insert: %w", err)
	}
	if _, err := txcontext.QuerierFrom(ctx, i.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}
