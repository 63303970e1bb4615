package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriflow/pkg/platform/circuit"
	"veriflow/pkg/platform/outbox"
	"veriflow/pkg/platform/outbox/store/memory"
)

type recordingDeliverer struct {
	mu      sync.Mutex
	batches [][]outbox.Message
	err     error
}

func (d *recordingDeliverer) Deliver(_ context.Context, msgs []outbox.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	batch := make([]outbox.Message, len(msgs))
	copy(batch, msgs)
	d.batches = append(d.batches, batch)
	return nil
}

func (d *recordingDeliverer) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *recordingDeliverer) delivered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, b := range d.batches {
		n += len(b)
	}
	return n
}

func appendMessages(t *testing.T, store outbox.Store, n int) {
	t.Helper()
	for i := range n {
		msg, err := outbox.NewJSONMessage("verification.audit", "key", map[string]int{"seq": i}, time.Now())
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), msg))
	}
}

func TestNewDispatcher_RequiresDependencies(t *testing.T) {
	_, err := NewDispatcher(nil, &recordingDeliverer{})
	require.Error(t, err)

	_, err = NewDispatcher(memory.NewInMemoryStore(), nil)
	require.Error(t, err)
}

func TestDispatchOnce_DeliversInOrderAndMarksDelivered(t *testing.T) {
	store := memory.NewInMemoryStore()
	deliverer := &recordingDeliverer{}
	appendMessages(t, store, 3)

	d, err := NewDispatcher(store, deliverer)
	require.NoError(t, err)

	n, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, deliverer.batches, 1)
	assert.JSONEq(t, `{"seq":0}`, string(deliverer.batches[0][0].Payload))
	assert.JSONEq(t, `{"seq":2}`, string(deliverer.batches[0][2].Payload))

	pending, err := store.FetchPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatchOnce_RespectsBatchSize(t *testing.T) {
	store := memory.NewInMemoryStore()
	deliverer := &recordingDeliverer{}
	appendMessages(t, store, 5)

	d, err := NewDispatcher(store, deliverer, WithBatchSize(2))
	require.NoError(t, err)

	n, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := store.FetchPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestDispatchOnce_FailureKeepsMessagesPending(t *testing.T) {
	store := memory.NewInMemoryStore()
	deliverer := &recordingDeliverer{err: errors.New("broker down")}
	appendMessages(t, store, 2)

	d, err := NewDispatcher(store, deliverer)
	require.NoError(t, err)

	_, err = d.DispatchOnce(context.Background())
	require.Error(t, err)

	pending, err := store.FetchPending(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)
}

func TestDispatchOnce_OpenBreakerSendsSingleProbe(t *testing.T) {
	store := memory.NewInMemoryStore()
	deliverer := &recordingDeliverer{err: errors.New("broker down")}
	appendMessages(t, store, 4)

	breaker := circuit.New("test", circuit.WithFailureThreshold(1))
	d, err := NewDispatcher(store, deliverer, WithBreaker(breaker))
	require.NoError(t, err)

	_, err = d.DispatchOnce(context.Background())
	require.Error(t, err)
	require.True(t, breaker.IsOpen())

	deliverer.setErr(nil)
	n, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "open breaker should limit the batch to one probe")
	assert.False(t, breaker.IsOpen(), "successful probe should close the breaker")

	n, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRun_DrainsUntilCancelled(t *testing.T) {
	store := memory.NewInMemoryStore()
	deliverer := &recordingDeliverer{}
	appendMessages(t, store, 7)

	d, err := NewDispatcher(store, deliverer,
		WithBatchSize(3),
		WithInterval(5*time.Millisecond, 20*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return deliverer.delivered() == 7
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancellation")
	}
}
