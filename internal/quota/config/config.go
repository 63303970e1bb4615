// Package config holds the yearly request caps for the quota limiter.
package config

import "fmt"

const (
	DefaultMaxAllowedRequests = 10
	DefaultMaxPerCustomer     = 50
)

// Config is passed to the quota service and stores at construction.
type Config struct {
	// DefaultMaxAllowedRequests is the global cap for the rolling counter.
	DefaultMaxAllowedRequests int `env:"DEFAULT_MAX_ALLOWED_REQUESTS" envDefault:"10"`
	// MaxRequestsPerCustomer is the per-pair cap assigned to new quota records.
	MaxRequestsPerCustomer int `env:"MAX_REQUESTS_PER_CUSTOMER" envDefault:"50"`
	// BlockOnRollingCap makes the rolling counter block at the cap instead of
	// resetting to 1.
	BlockOnRollingCap bool `env:"BLOCK_ON_ROLLING_CAP" envDefault:"false"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultMaxAllowedRequests: DefaultMaxAllowedRequests,
		MaxRequestsPerCustomer:    DefaultMaxPerCustomer,
	}
}

// Validate rejects caps that would make every create fail.
func (c *Config) Validate() error {
	if c.DefaultMaxAllowedRequests <= 0 {
		return fmt.Errorf("quota default max allowed requests must be positive, got %d", c.DefaultMaxAllowedRequests)
	}
	if c.MaxRequestsPerCustomer <= 0 {
		return fmt.Errorf("quota max requests per customer must be positive, got %d", c.MaxRequestsPerCustomer)
	}
	return nil
}
