package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriflow/internal/ratelimit/models"
)

func TestGetUserLimit(t *testing.T) {
	cfg := DefaultConfig()

	n, window, ok := cfg.GetUserLimit(models.ClassRead)
	require.True(t, ok)
	assert.Equal(t, 120, n)
	assert.Equal(t, time.Minute, window)

	n, _, ok = cfg.GetUserLimit(models.ClassWrite)
	require.True(t, ok)
	assert.Equal(t, 30, n)

	_, _, ok = cfg.GetUserLimit(models.EndpointClass("bulk"))
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, (&Config{Enabled: false}).Validate())
	assert.Error(t, (&Config{Enabled: true, ReadRequests: 1, WriteRequests: 0, Window: time.Minute}).Validate())
	assert.Error(t, (&Config{Enabled: true, ReadRequests: 1, WriteRequests: 1}).Validate())
}
