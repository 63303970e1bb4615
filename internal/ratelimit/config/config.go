// Package config holds per-actor API request limits.
package config

import (
	"fmt"
	"time"

	"veriflow/internal/ratelimit/models"
)

// Config is parsed from RATELIMIT_* environment variables.
type Config struct {
	Enabled       bool          `env:"ENABLED" envDefault:"true"`
	ReadRequests  int           `env:"READ_REQUESTS" envDefault:"120"`
	WriteRequests int           `env:"WRITE_REQUESTS" envDefault:"30"`
	Window        time.Duration `env:"WINDOW" envDefault:"1m"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		ReadRequests:  120,
		WriteRequests: 30,
		Window:        time.Minute,
	}
}

// GetUserLimit returns the request budget for an endpoint class. ok is false
// when no limit is configured for the class.
func (c *Config) GetUserLimit(class models.EndpointClass) (requestsPerWindow int, window time.Duration, ok bool) {
	switch class {
	case models.ClassRead:
		requestsPerWindow = c.ReadRequests
	case models.ClassWrite:
		requestsPerWindow = c.WriteRequests
	default:
		return 0, 0, false
	}
	if requestsPerWindow <= 0 || c.Window <= 0 {
		return 0, 0, false
	}
	return requestsPerWindow, c.Window, true
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.Window)
	}
	if c.ReadRequests <= 0 || c.WriteRequests <= 0 {
		return fmt.Errorf("rate limit budgets must be positive, got read=%d write=%d", c.ReadRequests, c.WriteRequests)
	}
	return nil
}
