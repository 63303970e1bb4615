package store

import (
	"context"

	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	txcontext "veriflow/pkg/platform/tx"
)

// PostgresTx runs lifecycle mutations in one pgx transaction. Isolation per
// request comes from FindRequestForUpdate's row lock, so requestID is unused.
type PostgresTx struct {
	manager *txcontext.Manager
	store   ports.Store
}

func NewPostgresTx(manager *txcontext.Manager, store ports.Store) *PostgresTx {
	return &PostgresTx{manager: manager, store: store}
}

func (t *PostgresTx) RunInTx(ctx context.Context, _ id.VerificationRequestID, fn func(ctx context.Context, store ports.Store) error) error {
	return t.manager.RunInTx(ctx, func(txCtx context.Context) error {
		return fn(txCtx, t.store)
	})
}
