package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/oauthrest/component"
	"github.com/kbukum/oauthrest/logger"
)

const (
	defaultWindow    = time.Second
	defaultKeyPrefix = "oauthrest:ratelimit"
)

// RedisConfig configures the Redis connection of the shared limiter.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	// KeyPrefix namespaces the window counters. Processes sharing a quota
	// must use the same prefix.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults fills in zero-value fields.
func (c *RedisConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
}

// Validate checks the configuration.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ratelimit: redis addr is required")
	}
	if c.DB < 0 {
		return fmt.Errorf("ratelimit: redis db must not be negative")
	}
	return nil
}

// Redis is a fixed-window limiter whose counters live in Redis: at most
// limit calls start per window across every process sharing the key prefix.
type Redis struct {
	rdb    *goredis.Client
	cfg    RedisConfig
	limit  int
	window time.Duration
	log    *logger.Logger
	now    func() time.Time
}

var _ component.Component = (*Redis)(nil)
var _ component.Describable = (*Redis)(nil)

// NewRedis connects a fixed-window limiter. The connection is lazy; Start
// verifies it.
func NewRedis(cfg RedisConfig, limit int, window time.Duration, log *logger.Logger) (*Redis, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("ratelimit: limit must be positive")
	}
	if window <= 0 {
		window = defaultWindow
	}
	if log == nil {
		log = logger.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb:    rdb,
		cfg:    cfg,
		limit:  limit,
		window: window,
		log:    log.WithComponent("ratelimit"),
		now:    time.Now,
	}, nil
}

// Allow counts one call in the current window and reports whether it fits.
// It also returns the time left in the window.
func (r *Redis) Allow(ctx context.Context) (bool, time.Duration, error) {
	now := r.now()
	slot := now.UnixNano() / int64(r.window)
	key := r.cfg.KeyPrefix + ":" + strconv.FormatInt(slot, 10)
	remaining := time.Duration((slot+1)*int64(r.window) - now.UnixNano())

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("ratelimit: redis: %w", err)
	}

	return incr.Val() <= int64(r.limit), remaining, nil
}

// Wait blocks until the call fits in a window or ctx is done.
func (r *Redis) Wait(ctx context.Context) error {
	for {
		ok, remaining, err := r.Allow(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		r.log.Debug("rate limited, waiting for next window", logger.Fields(
			"wait_ms", remaining.Milliseconds(),
		))

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Name returns the component name.
func (r *Redis) Name() string { return "ratelimit" }

// Start verifies the Redis connection.
func (r *Redis) Start(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ratelimit: redis ping %s: %w", r.cfg.Addr, err)
	}
	r.log.Info("redis rate limiter connected", logger.Fields(
		"addr", r.cfg.Addr,
		"limit", r.limit,
		"window", r.window.String(),
	))
	return nil
}

// Stop closes the Redis connection.
func (r *Redis) Stop(_ context.Context) error {
	return r.rdb.Close()
}

// Health pings Redis.
func (r *Redis) Health(ctx context.Context) component.Health {
	h := component.Health{Name: r.Name(), Status: component.StatusHealthy}
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}

// Describe returns a one-line summary.
func (r *Redis) Describe() component.Description {
	return component.Description{
		Name:    "Rate limiter",
		Type:    "rate-limiter",
		Details: fmt.Sprintf("redis %s limit=%d/%s", r.cfg.Addr, r.limit, r.window),
	}
}
