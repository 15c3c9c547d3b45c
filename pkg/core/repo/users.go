package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// UsersQueryer queries and updates the user accounts.
// Missing rows are reported as cerr.NotFound and duplicate usernames or
// emails as cerr.Conflict errors.
type UsersQueryer interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	SetPassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, r model.Role, activeOnly bool) (
		[]model.User, error,
	)
	UpdateAccess(ctx context.Context, id int64, r model.Role, active bool) (
		*model.User, error,
	)
	Counts(ctx context.Context) (*model.UserCounts, error)
}

type Users interface {
	Conn(Conn) UsersQueryer
	Tx(Tx) UsersQueryer
}
