package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "veriflow/pkg/domain"
)

func testKey() Key {
	return NewKey(id.UserID(uuid.New()), id.UserID(uuid.New()), 2024)
}

func TestApplyIncrement_RollingReset(t *testing.T) {
	policy := Policy{RollingCap: 10, DefaultMaxAllowed: 50}
	now := time.Now()

	rec := NewRecord(testKey(), policy, now)
	for range 10 {
		rec.ApplyIncrement(policy, now)
	}

	assert.Equal(t, 1, rec.RequestCount, "11th increment resets the rolling counter")
	assert.Equal(t, 11, rec.TotalRequests)
}

func TestApplyIncrement_BlockingPolicyNeverResets(t *testing.T) {
	policy := Policy{RollingCap: 3, DefaultMaxAllowed: 50, BlockOnRollingCap: true}
	now := time.Now()

	rec := NewRecord(testKey(), policy, now)
	rec.ApplyIncrement(policy, now)
	rec.ApplyIncrement(policy, now)
	rec.ApplyIncrement(policy, now)

	assert.Equal(t, 4, rec.RequestCount)
	assert.False(t, rec.AllowsCreate(policy))
}

func TestAllowsCreate(t *testing.T) {
	policy := Policy{RollingCap: 10, DefaultMaxAllowed: 50}

	t.Run("at rolling cap still allows under reset policy", func(t *testing.T) {
		rec := &QuotaRecord{RequestCount: 10, TotalRequests: 10, MaxAllowedRequests: 50}
		assert.True(t, rec.AllowsCreate(policy))
	})

	t.Run("blocks when total reaches per-pair cap", func(t *testing.T) {
		rec := &QuotaRecord{RequestCount: 1, TotalRequests: 50, MaxAllowedRequests: 50}
		assert.False(t, rec.AllowsCreate(policy))
	})

	t.Run("strict policy blocks at rolling cap", func(t *testing.T) {
		strict := policy
		strict.BlockOnRollingCap = true
		rec := &QuotaRecord{RequestCount: 10, TotalRequests: 10, MaxAllowedRequests: 50}
		assert.False(t, rec.AllowsCreate(strict))
	})
}
