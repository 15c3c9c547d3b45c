package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// Carts implements repo.Carts. Each cart expires after ttl of
// inactivity, which should match the session lifetime.
type Carts struct {
	c   *Client
	ttl time.Duration
}

func NewCarts(c *Client, ttl time.Duration) *Carts {
	return &Carts{c: c, ttl: ttl}
}

func (cs *Carts) Load(ctx context.Context, sid string) (model.Cart, error) {
	cart := model.Cart{}
	if _, err := cs.c.getJSON(ctx, cs.c.key("cart", sid), &cart); err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return cart, nil
}

// Save stores c, or forgets the session cart if c is empty.
func (cs *Carts) Save(ctx context.Context, sid string, c model.Cart) error {
	if c.Empty() {
		return cs.Clear(ctx, sid)
	}
	if err := cs.c.setJSON(ctx, cs.c.key("cart", sid), c, cs.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (cs *Carts) Clear(ctx context.Context, sid string) error {
	if err := cs.c.rdb.Del(ctx, cs.c.key("cart", sid)).Err(); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
