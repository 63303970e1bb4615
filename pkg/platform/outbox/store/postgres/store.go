package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"veriflow/pkg/platform/outbox"
	txcontext "veriflow/pkg/platform/tx"
)

// Store implements outbox.Store on the outbox table. Append joins the caller's
// transaction when the context carries one.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL outbox store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, msg outbox.Message) error {
	query := `
		INSERT INTO outbox (id, topic, message_key, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query,
		msg.ID,
		msg.Topic,
		msg.Key,
		msg.Payload,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func (s *Store) FetchPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	query := `
		SELECT id, topic, message_key, payload, created_at, attempts, last_error
		FROM outbox
		WHERE delivered_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := txcontext.QuerierFrom(ctx, s.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox entries: %w", err)
	}
	defer rows.Close()

	var msgs []outbox.Message
	for rows.Next() {
		var m outbox.Message
		if err := rows.Scan(&m.ID, &m.Topic, &m.Key, &m.Payload, &m.CreatedAt, &m.Attempts, &m.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return msgs, nil
}

func (s *Store) MarkDelivered(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, msgID := range ids {
		raw[i] = msgID.String()
	}
	query := `UPDATE outbox SET delivered_at = $2 WHERE id = ANY($1::uuid[])`
	if _, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query, raw, at); err != nil {
		return fmt.Errorf("mark outbox entries delivered: %w", err)
	}
	return nil
}

func (s *Store) MarkFailed(ctx context.Context, msgID uuid.UUID, reason string) error {
	query := `UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`
	if _, err := txcontext.QuerierFrom(ctx, s.pool).Exec(ctx, query, msgID, reason); err != nil {
		return fmt.Errorf("mark outbox entry failed: %w", err)
	}
	return nil
}
