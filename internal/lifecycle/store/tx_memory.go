package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
)

// numShards spreads request locks so unrelated requests do not contend.
const numShards = 128

const defaultTxTimeout = 5 * time.Second

// ShardedTx serialises mutations per request using a fixed set of mutexes
// selected by request ID. It gives the in-memory store the same isolation a
// row lock gives the postgres store.
type ShardedTx struct {
	shards  [numShards]sync.Mutex
	store   ports.Store
	timeout time.Duration
}

func NewShardedTx(store ports.Store) *ShardedTx {
	return &ShardedTx{store: store, timeout: defaultTxTimeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, requestID id.VerificationRequestID, fn func(ctx context.Context, store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := shardFor(requestID)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.store)
}

func shardFor(requestID id.VerificationRequestID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(requestID.String()))
	return h.Sum32() % numShards
}
