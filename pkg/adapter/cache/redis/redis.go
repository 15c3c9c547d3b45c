// Package redis keeps the ephemeral per-session state, namely the
// shopping carts and the password reset tokens, in a Redis server.
// Values are stored as JSON documents with an expiration time, so an
// abandoned cart or an unused token disappears on its own.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string // prepended to all keys, e.g., "fm:"
}

// Client wraps a redis.Client and adds the JSON helpers.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New connects to the Redis server of opts and pings it.
func New(ctx context.Context, opts Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis at %q: %w", opts.Addr, err)
	}
	return &Client{rdb: rdb, prefix: opts.Prefix}, nil
}

func (c *Client) key(parts ...string) string {
	k := c.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func (c *Client) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// getJSON decodes the key value into dest and reports whether it
// was found.
func (c *Client) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshaling %q: %w", key, err)
	}
	return true, nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
