// Package redis owns the redis connection and the key namespace. Everything
// the platform stores in redis (worker locks, idempotency records) goes
// through the key helpers here so the "ss:" prefix stays in one place.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

const (
	keyNamespace      = "ss"
	lockPrefix        = "lock"
	idempotencyPrefix = "idempotency"
)

var errNotReady = errors.New("redis client not initialized")

type commands interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client is the process-wide redis handle. Its zero value refuses commands
// instead of panicking, which keeps optional wiring (the API runs without
// redis in tests) safe.
type Client struct {
	cmds commands
	rdb  *redis.Client
}

// Pinger is what health checks need from a cache.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore is the slice of the client the dedupe middleware uses.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

// New connects, verifies the connection with a ping, and returns the client.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("verify redis connection: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{cmds: rdb, rdb: rdb}, nil
}

func buildOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return tune(opts, cfg), nil
	}
	if cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	return tune(&redis.Options{Addr: cfg.Address, Password: cfg.Password}, cfg), nil
}

// tune fills pool and timeout settings a connection URL cannot carry.
// Anything the URL already set wins.
func tune(opts *redis.Options, cfg config.RedisConfig) *redis.Options {
	fill(&opts.DB, cfg.DB)
	fill(&opts.PoolSize, cfg.PoolSize)
	fill(&opts.MinIdleConns, cfg.MinIdleConns)
	fill(&opts.DialTimeout, cfg.DialTimeout)
	fill(&opts.ReadTimeout, cfg.ReadTimeout)
	fill(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts
}

func fill[T comparable](dst *T, value T) {
	var zero T
	if *dst == zero {
		*dst = value
	}
}

func (c *Client) ready() error {
	if c == nil || c.cmds == nil {
		return errNotReady
	}
	return nil
}

// Set writes key with a TTL; zero ttl means no expiry.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.cmds.Set(ctx, key, value, ttl).Err()
}

// Get reads key, returning redis.Nil when it is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return c.cmds.Get(ctx, key).Result()
}

// SetNX writes key only when no value is present; the bool reports whether
// this call won.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	return c.cmds.SetNX(ctx, key, value, ttl).Result()
}

// Del drops the given keys. Missing keys are not an error.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.cmds.Del(ctx, keys...).Err()
}

// Ping reports whether the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.cmds.Ping(ctx).Err()
}

// Close is a no-op on an uninitialized client.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// LockKey builds the namespaced key a worker lock lives under.
func (c *Client) LockKey(parts ...string) string {
	return c.key(append([]string{lockPrefix}, parts...)...)
}

// IdempotencyKey builds the namespaced key an idempotency record lives under.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.key(idempotencyPrefix, scope, id)
}

func (c *Client) key(parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			elems = append(elems, part)
		}
	}
	return strings.Join(elems, ":")
}
