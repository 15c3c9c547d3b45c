package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// Carts keeps the ephemeral cart of each session. A missing cart is
// loaded as an empty cart.
type Carts interface {
	Load(ctx context.Context, sid string) (model.Cart, error)
	Save(ctx context.Context, sid string, c model.Cart) error
	Clear(ctx context.Context, sid string) error
}

// ResetTokens keeps the single-use password reset tokens.
type ResetTokens interface {
	Issue(ctx context.Context, token string, userID int64, ttl time.Duration) error

	// Consume returns the user id of the token and forgets the token.
	// Unknown or expired tokens are reported as cerr.NotFound errors.
	Consume(ctx context.Context, token string) (int64, error)
}

// Migrator applies the versioned database schema migrations.
type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context, steps int) error
	Version(ctx context.Context) (version uint, dirty bool, err error)
	Close() error
}
