package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kbukum/oauthrest/logger"
)

// Backends accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Limiter blocks until one call may proceed.
type Limiter interface {
	// Wait returns nil when the call may proceed, or an error if the
	// context ends first or the limiter cannot decide.
	Wait(ctx context.Context) error
}

// Config selects and configures a limiter. An empty Backend disables limiting.
type Config struct {
	// Backend is "memory", "redis", or empty for none.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Rate is calls per second for the memory backend.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the token bucket capacity for the memory backend.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// Limit is calls per Window for the redis backend.
	Limit int `yaml:"limit" mapstructure:"limit"`
	// Window is the fixed window length for the redis backend.
	Window time.Duration `yaml:"window" mapstructure:"window"`
	// Redis configures the redis backend.
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in zero-value fields for the selected backend.
func (c *Config) ApplyDefaults() {
	switch c.Backend {
	case BackendMemory:
		if c.Rate <= 0 {
			c.Rate = defaultRate
		}
		if c.Burst <= 0 {
			c.Burst = int(c.Rate)
		}
	case BackendRedis:
		if c.Window <= 0 {
			c.Window = defaultWindow
		}
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains([]string{BackendMemory, BackendRedis}, c.Backend) {
		return fmt.Errorf("ratelimit: unknown backend %q", c.Backend)
	}
	if c.Backend == BackendRedis {
		if c.Limit <= 0 {
			return fmt.Errorf("ratelimit: limit must be positive for the redis backend")
		}
		return c.Redis.Validate()
	}
	return nil
}

// New builds the limiter named by cfg.Backend. It returns nil, nil when
// limiting is disabled.
func New(cfg Config, log *logger.Logger) (Limiter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewTokenBucket(cfg.Rate, cfg.Burst), nil
	case BackendRedis:
		r, err := NewRedis(cfg.Redis, cfg.Limit, cfg.Window, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, nil
	}
}
