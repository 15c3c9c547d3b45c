package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/cache/redis"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// RedisTestSuite runs against the server of the FM_TEST_REDIS_ADDR
// environment variable and is skipped when it is not set.
type RedisTestSuite struct {
	suite.Suite

	ctx context.Context
	c   *redis.Client
}

func TestRedisTestSuite(t *testing.T) {
	addr := os.Getenv("FM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FM_TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()
	c, err := redis.New(ctx, redis.Options{
		Addr: addr, Prefix: "fmtest:" + uuid.NewString() + ":",
	})
	if err != nil {
		t.Fatalf("redis.New: %v", err)
	}
	defer c.Close()
	suite.Run(t, &RedisTestSuite{ctx: ctx, c: c})
}

func (s *RedisTestSuite) TestCartRoundTrip() {
	carts := redis.NewCarts(s.c, time.Minute)
	sid := uuid.NewString()

	c, err := carts.Load(s.ctx, sid)
	s.Require().NoError(err)
	s.True(c.Empty(), "a missing cart loads as empty")

	s.Require().NoError(carts.Save(s.ctx, sid, model.Cart{3: 2, 11: 1}))
	c, err = carts.Load(s.ctx, sid)
	s.Require().NoError(err)
	s.Equal(model.Cart{3: 2, 11: 1}, c)

	s.Require().NoError(carts.Save(s.ctx, sid, model.Cart{}))
	c, err = carts.Load(s.ctx, sid)
	s.Require().NoError(err)
	s.True(c.Empty())
}

func (s *RedisTestSuite) TestTokenIsConsumedOnce() {
	rt := redis.NewResetTokens(s.c)
	tok := uuid.NewString()
	s.Require().NoError(rt.Issue(s.ctx, tok, 42, time.Minute))

	id, err := rt.Consume(s.ctx, tok)
	s.Require().NoError(err)
	s.Equal(int64(42), id)

	_, err = rt.Consume(s.ctx, tok)
	s.True(cerr.IsNotFound(err), "got %v", err)
}

func (s *RedisTestSuite) TestTokenExpires() {
	rt := redis.NewResetTokens(s.c)
	tok := uuid.NewString()
	s.Require().NoError(rt.Issue(s.ctx, tok, 7, 50*time.Millisecond))
	time.Sleep(200 * time.Millisecond)
	_, err := rt.Consume(s.ctx, tok)
	s.True(cerr.IsNotFound(err), "got %v", err)
}
