package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

var errNotInitialized = errors.New("redis client not initialized")

// cmdable is the slice of go-redis the API relies on; tests swap in a map.
type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client backs refresh sessions, idempotency records, auth rate limits and
// the cron leader lock.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore is what the idempotency middleware and the payment
// notification guard need.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// New dials redis and fails fast when the server does not answer PING.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"redis_addr": opts.Addr, "redis_db": opts.DB}), "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

// options prefers PETCARE_REDIS_URL; explicit pool and timeout settings fill
// whatever the URL leaves unset.
func options(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	fillInt(&opts.DB, cfg.DB)
	fillInt(&opts.PoolSize, cfg.PoolSize)
	fillInt(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDuration(&opts.DialTimeout, cfg.DialTimeout)
	fillDuration(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDuration(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func fillInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func fillDuration(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

func (c *Client) cmd() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil when key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	s, err := c.cmd()
	if err != nil {
		return "", err
	}
	return s.Get(ctx, key).Result()
}

// SetNX reports whether this call created key.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s, err := c.cmd()
	if err != nil {
		return false, err
	}
	return s.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts a hit against scope. The window starts with the
// first hit and the counter expires with it.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	s, err := c.cmd()
	if err != nil {
		return false, 0, err
	}
	key := c.RateLimitKey(scope)
	count, err := s.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 && window > 0 {
		if err := s.Expire(ctx, key, window).Err(); err != nil {
			return false, count, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count <= limit, count, nil
}

func (c *Client) Ping(ctx context.Context) error {
	s, err := c.cmd()
	if err != nil {
		return err
	}
	return s.Ping(ctx).Err()
}

// Close is a no-op for clients built around a test store.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
