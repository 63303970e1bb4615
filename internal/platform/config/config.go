// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	quotaconfig "veriflow/internal/quota/config"
	ratelimitconfig "veriflow/internal/ratelimit/config"
)

// Config is the full service configuration.
type Config struct {
	Environment string `env:"VERIFLOW_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Outbox    OutboxConfig
	Auth      AuthConfig
	Seed      SeedConfig
	Quota     quotaconfig.Config     `envPrefix:"QUOTA_"`
	RateLimit ratelimitconfig.Config `envPrefix:"RATELIMIT_"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"VERIFLOW_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig selects the persistence backend. An empty URL runs the
// service on in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"1"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	MigrateOnStart  bool          `env:"DATABASE_MIGRATE_ON_START" envDefault:"true"`
}

// RedisConfig enables the Redis quota store when URL is set.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables broker delivery of outbox messages when Brokers is set.
type KafkaConfig struct {
	Brokers           []string      `env:"KAFKA_BROKERS" envSeparator:","`
	ClientID          string        `env:"KAFKA_CLIENT_ID" envDefault:"veriflow"`
	Partitions        int32         `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	ReplicationFactor int16         `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	ProduceTimeout    time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`
}

// OutboxConfig tunes the outbox dispatcher.
type OutboxConfig struct {
	BatchSize        int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	PollInterval     time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	MaxBackoff       time.Duration `env:"OUTBOX_MAX_BACKOFF" envDefault:"30s"`
	FailureThreshold int           `env:"OUTBOX_BREAKER_FAILURES" envDefault:"5"`
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"veriflow"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"veriflow-api"`
}

// SeedConfig lists users to create at startup. Existing users are kept.
type SeedConfig struct {
	Customers  []string `env:"SEED_CUSTOMERS" envSeparator:","`
	Requestors []string `env:"SEED_REQUESTORS" envSeparator:","`
	Officers   []string `env:"SEED_OFFICERS" envSeparator:","`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Quota.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("outbox batch size must be positive, got %d", c.Outbox.BatchSize)
	}
	if c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("outbox poll interval must be positive")
	}
	if c.IsProduction() && c.Auth.JWTSigningKey == "dev-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	if c.IsProduction() && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set in production")
	}
	return nil
}
