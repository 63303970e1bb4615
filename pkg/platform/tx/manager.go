package tx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTxTimeout = 5 * time.Second

// Manager runs callbacks inside a PostgreSQL transaction carried by context.
// Nested RunInTx calls reuse the outer transaction.
type Manager struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewManager creates a transaction manager over pool.
func NewManager(pool *pgxpool.Pool) *Manager {
	return &Manager{pool: pool, timeout: defaultTxTimeout}
}

// RunInTx commits when fn returns nil and rolls back on error or panic.
func (m *Manager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
