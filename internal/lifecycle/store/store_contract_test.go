package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
)

var baseTime = time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

func newRequest(at time.Time) *models.VerificationRequest {
	return models.NewVerificationRequest(id.UserID(uuid.New()), id.UserID(uuid.New()), "onboarding", at)
}

// runStoreContract covers behaviour shared by the memory and postgres stores.
func runStoreContract(t *testing.T, newStores func(t *testing.T) (ports.Store, ports.StoreTx)) {
	ctx := context.Background()

	t.Run("create and find request", func(t *testing.T) {
		store, _ := newStores(t)
		req := newRequest(baseTime)
		require.NoError(t, store.CreateRequest(ctx, req))

		got, err := store.FindRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, "onboarding", got.RequestReason)
		assert.False(t, got.HasOfficer())
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		store, _ := newStores(t)
		req := newRequest(baseTime)
		require.NoError(t, store.CreateRequest(ctx, req))
		require.ErrorIs(t, store.CreateRequest(ctx, req), sentinel.ErrConflict)
	})

	t.Run("missing request is not found", func(t *testing.T) {
		store, _ := newStores(t)
		_, err := store.FindRequest(ctx, id.NewVerificationRequestID())
		require.ErrorIs(t, err, sentinel.ErrNotFound)

		err = store.UpdateRequest(ctx, newRequest(baseTime))
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("update persists officer and decision timestamps", func(t *testing.T) {
		store, _ := newStores(t)
		req := newRequest(baseTime)
		require.NoError(t, store.CreateRequest(ctx, req))

		officer := id.UserID(uuid.New())
		req.AssignOfficer(officer, baseTime.Add(time.Minute))
		req.ApplyStatus(models.StatusApproved, baseTime.Add(2*time.Minute))
		require.NoError(t, store.UpdateRequest(ctx, req))

		got, err := store.FindRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAssignedTo(officer))
		assert.Equal(t, models.StatusApproved, got.Status)
		require.NotNil(t, got.ApprovedAt)
		assert.True(t, got.ApprovedAt.Equal(baseTime.Add(2*time.Minute)))
	})

	t.Run("history is returned most recent first", func(t *testing.T) {
		store, _ := newStores(t)
		req := newRequest(baseTime)
		require.NoError(t, store.CreateRequest(ctx, req))

		actor := id.UserID(uuid.New())
		require.NoError(t, store.AppendHistory(ctx, models.NewHistoryEntry(req.ID, "", models.StatusPending, actor, "", baseTime)))
		require.NoError(t, store.AppendHistory(ctx, models.NewHistoryEntry(req.ID, models.StatusPending, models.StatusDocumentUploaded, actor, "", baseTime.Add(time.Hour))))
		require.NoError(t, store.AppendHistory(ctx, models.NewHistoryEntry(req.ID, models.StatusDocumentUploaded, models.StatusInReview, actor, "", baseTime.Add(time.Hour))))

		entries, err := store.ListHistory(ctx, req.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, models.StatusInReview, entries[0].ToStatus, "same-timestamp ties resolve to the later insert")
		assert.Equal(t, models.StatusDocumentUploaded, entries[1].ToStatus)
		assert.Nil(t, entries[2].FromStatus)
	})

	t.Run("active requests grouped by officer", func(t *testing.T) {
		store, _ := newStores(t)
		o1, o2, o3 := id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())

		mk := func(officer id.UserID, status models.Status, offset time.Duration) *models.VerificationRequest {
			req := newRequest(baseTime.Add(offset))
			req.AssignOfficer(officer, baseTime)
			req.Status = status
			require.NoError(t, store.CreateRequest(ctx, req))
			return req
		}
		first := mk(o1, models.StatusDocumentUploaded, 0)
		second := mk(o1, models.StatusDocumentUploaded, time.Second)
		mk(o1, models.StatusInReview, 2*time.Second)
		mk(o3, models.StatusDocumentUploaded, 0)

		active, err := store.ListActiveByOfficers(ctx, []id.UserID{o1, o2}, models.StatusDocumentUploaded)
		require.NoError(t, err)
		assert.Equal(t, []id.VerificationRequestID{first.ID, second.ID}, active[o1])
		assert.Empty(t, active[o2])
		_, hasO3 := active[o3]
		assert.False(t, hasO3, "officers outside the list are ignored")
	})

	t.Run("transaction serialises read-modify-write per request", func(t *testing.T) {
		store, tx := newStores(t)
		req := newRequest(baseTime)
		require.NoError(t, store.CreateRequest(ctx, req))

		const writers = 20
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tx.RunInTx(ctx, req.ID, func(ctx context.Context, s ports.Store) error {
					cur, err := s.FindRequestForUpdate(ctx, req.ID)
					if err != nil {
						return err
					}
					from := cur.ApplyStatus(models.StatusInReview, baseTime.Add(time.Duration(i+1)*time.Second))
					if err := s.UpdateRequest(ctx, cur); err != nil {
						return err
					}
					return s.AppendHistory(ctx, models.NewHistoryEntry(cur.ID, from, models.StatusInReview, cur.CustomerID, "", cur.UpdatedAt))
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		entries, err := store.ListHistory(ctx, req.ID)
		require.NoError(t, err)
		assert.Len(t, entries, writers)
	})
}
