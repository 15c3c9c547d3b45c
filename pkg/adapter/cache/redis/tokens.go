package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/go-redis/redis/v8"
)

// ResetTokens implements repo.ResetTokens. A token is consumed with
// the atomic GETDEL command, so it can not be used twice even by
// concurrent requests.
type ResetTokens struct {
	c *Client
}

func NewResetTokens(c *Client) *ResetTokens {
	return &ResetTokens{c: c}
}

func (rt *ResetTokens) Issue(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	err := rt.c.rdb.Set(
		ctx, rt.c.key("reset", token), strconv.FormatInt(userID, 10), ttl,
	).Err()
	if err != nil {
		return fmt.Errorf("issuing reset token: %w", err)
	}
	return nil
}

func (rt *ResetTokens) Consume(ctx context.Context, token string) (int64, error) {
	s, err := rt.c.rdb.GetDel(ctx, rt.c.key("reset", token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, cerr.NotFoundf("invalid or expired reset token")
	}
	if err != nil {
		return 0, fmt.Errorf("consuming reset token: %w", err)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupted reset token: %w", err)
	}
	return id, nil
}
