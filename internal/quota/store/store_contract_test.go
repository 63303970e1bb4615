package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriflow/internal/quota/models"
	"veriflow/internal/quota/ports"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

var defaultPolicy = models.Policy{RollingCap: 10, DefaultMaxAllowed: 50}

func newKey(year int) models.Key {
	return models.NewKey(id.UserID(uuid.New()), id.UserID(uuid.New()), year)
}

// runStoreContract exercises behaviour every quota store must share. The
// postgres and redis integration tests run it against real backends.
func runStoreContract(t *testing.T, newStore func(t *testing.T) ports.Store) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	t.Run("get missing record returns not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, newKey(2024))
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("first increment creates record with defaults", func(t *testing.T) {
		store := newStore(t)
		key := newKey(2024)

		rec, err := store.Increment(ctx, key, defaultPolicy)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.RequestCount)
		assert.Equal(t, 1, rec.TotalRequests)
		assert.Equal(t, 50, rec.MaxAllowedRequests)

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, rec.TotalRequests, got.TotalRequests)
	})

	t.Run("eleventh increment resets rolling counter", func(t *testing.T) {
		store := newStore(t)
		key := newKey(2024)

		var rec *models.QuotaRecord
		var err error
		for range 11 {
			rec, err = store.Increment(ctx, key, defaultPolicy)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, rec.RequestCount)
		assert.Equal(t, 11, rec.TotalRequests)
	})

	t.Run("blocking policy keeps counting past the cap", func(t *testing.T) {
		store := newStore(t)
		key := newKey(2024)
		strict := models.Policy{RollingCap: 2, DefaultMaxAllowed: 50, BlockOnRollingCap: true}

		var rec *models.QuotaRecord
		var err error
		for range 3 {
			rec, err = store.Increment(ctx, key, strict)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, rec.RequestCount)
	})

	t.Run("list by customer is scoped to year", func(t *testing.T) {
		store := newStore(t)
		customer := id.UserID(uuid.New())
		r1 := models.NewKey(customer, id.UserID(uuid.New()), 2024)
		r2 := models.NewKey(customer, id.UserID(uuid.New()), 2024)
		old := models.NewKey(customer, id.UserID(uuid.New()), 2023)

		for _, k := range []models.Key{r1, r2, r2, old} {
			_, err := store.Increment(ctx, k, defaultPolicy)
			require.NoError(t, err)
		}

		recs, err := store.ListByCustomer(ctx, customer, 2024)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		total := 0
		for _, r := range recs {
			total += r.TotalRequests
		}
		assert.Equal(t, 3, total)
	})

	t.Run("set max allowed upserts cap and preserves counters", func(t *testing.T) {
		store := newStore(t)
		key := newKey(2024)

		_, err := store.Increment(ctx, key, defaultPolicy)
		require.NoError(t, err)

		rec, err := store.SetMaxAllowed(ctx, key, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, rec.MaxAllowedRequests)
		assert.Equal(t, 1, rec.TotalRequests)

		fresh := newKey(2024)
		rec, err = store.SetMaxAllowed(ctx, fresh, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.TotalRequests)

		rec, err = store.Increment(ctx, fresh, defaultPolicy)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.TotalRequests)
		assert.Equal(t, 3, rec.MaxAllowedRequests, "configured cap survives the first increment")
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		store := newStore(t)
		key := newKey(2024)

		const workers = 40
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Increment(ctx, key, defaultPolicy)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		rec, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, workers, rec.TotalRequests)
	})
}
