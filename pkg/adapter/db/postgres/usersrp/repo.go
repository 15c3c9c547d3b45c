// Package usersrp implements the repo.Users and repo.Vehicles
// repositories.
package usersrp

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (users *Repo) Conn(c repo.Conn) repo.UsersQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (uq queryer[Q]) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return Create(ctx, uq.q, u)
}

func (uq queryer[Q]) ByID(ctx context.Context, id int64) (*model.User, error) {
	return ByID(ctx, uq.q, id)
}

func (uq queryer[Q]) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return ByEmail(ctx, uq.q, email)
}

func (uq queryer[Q]) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return UsernameTaken(ctx, uq.q, username)
}

func (uq queryer[Q]) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return TouchLogin(ctx, uq.q, id, at)
}

func (uq queryer[Q]) SetPassword(ctx context.Context, id int64, hash string) error {
	return SetPassword(ctx, uq.q, id, hash)
}

func (uq queryer[Q]) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, uq.q)
}

func (uq queryer[Q]) ListByRole(ctx context.Context, r model.Role, activeOnly bool) ([]model.User, error) {
	return ListByRole(ctx, uq.q, r, activeOnly)
}

func (uq queryer[Q]) UpdateAccess(ctx context.Context, id int64, r model.Role, active bool) (*model.User, error) {
	return UpdateAccess(ctx, uq.q, id, r, active)
}

func (uq queryer[Q]) Counts(ctx context.Context) (*model.UserCounts, error) {
	return Counts(ctx, uq.q)
}
