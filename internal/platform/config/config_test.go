package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Quota.DefaultMaxAllowedRequests)
	assert.Equal(t, 50, cfg.Quota.MaxRequestsPerCustomer)
	assert.False(t, cfg.Quota.BlockOnRollingCap)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Equal(t, time.Second, cfg.Outbox.PollInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("QUOTA_DEFAULT_MAX_ALLOWED_REQUESTS", "5")
	t.Setenv("QUOTA_MAX_REQUESTS_PER_CUSTOMER", "20")
	t.Setenv("QUOTA_BLOCK_ON_ROLLING_CAP", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Quota.DefaultMaxAllowedRequests)
	assert.Equal(t, 20, cfg.Quota.MaxRequestsPerCustomer)
	assert.True(t, cfg.Quota.BlockOnRollingCap)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.Outbox.PollInterval)
}

func TestLoadRejectsInvalidQuota(t *testing.T) {
	t.Setenv("QUOTA_MAX_REQUESTS_PER_CUSTOMER", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("VERIFLOW_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://veriflow@db/veriflow")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SIGNING_KEY")

	t.Setenv("JWT_SIGNING_KEY", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadSeedUsers(t *testing.T) {
	t.Setenv("SEED_OFFICERS", "ada.lovelace@example.com,alan.turing@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ada.lovelace@example.com", "alan.turing@example.com"}, cfg.Seed.Officers)
	assert.Empty(t, cfg.Seed.Customers)
}
