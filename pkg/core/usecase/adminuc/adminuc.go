// Package adminuc contains the administration use cases for user
// accounts, orders, and discount codes. The catalog administration
// lives in the cataloguc package.
package adminuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// ErrSelfLockout is returned when an administrator tries to demote or
// deactivate their own account.
var ErrSelfLockout = errors.New("administrators may not demote or deactivate themselves")

// UseCase represents the administration use cases.
type UseCase struct {
	pool      repo.Pool
	users     repo.Users
	orders    repo.Orders
	discounts repo.Discounts
}

// New instantiates an administration use case.
func New(
	p repo.Pool,
	users repo.Users,
	orders repo.Orders,
	discounts repo.Discounts,
) *UseCase {
	return &UseCase{
		pool:      p,
		users:     users,
		orders:    orders,
		discounts: discounts,
	}
}

// Users lists all user accounts.
func (uc *UseCase) Users(ctx context.Context) (uu []model.User, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		uu, err = uc.users.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return uu, nil
}

// UpdateUserAccess changes the role and the active flag of the id
// user on behalf of the actor administrator.
func (uc *UseCase) UpdateUserAccess(
	ctx context.Context, actor *model.Session, id int64, r model.Role, active bool,
) (*model.User, error) {
	if r == model.RoleInvalid {
		return nil, cerr.BadRequest(model.ErrUnknownRole)
	}
	if actor.UserID == id && (r != model.RoleAdmin || !active) {
		return nil, cerr.BadRequest(ErrSelfLockout)
	}
	var u *model.User
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = uc.users.Conn(c).UpdateAccess(ctx, id, r, active)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}
	log.Info(
		ctx, "user access updated",
		log.ID("user", id), log.ID("by", actor.UserID),
		slog.String("role", r.String()), slog.Bool("active", active),
	)
	return u, nil
}

// Orders lists all orders, newest first.
func (uc *UseCase) Orders(ctx context.Context) (oo []model.Order, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		oo, err = uc.orders.Conn(c).List(ctx, 0)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return oo, nil
}

// Discounts lists all discount codes, newest first.
func (uc *UseCase) Discounts(ctx context.Context) (dd []model.Discount, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		dd, err = uc.discounts.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	return dd, nil
}

// CreateDiscount validates and stores d. Codes are unique after being
// upper-cased, so a duplicate code is reported as a conflict.
func (uc *UseCase) CreateDiscount(
	ctx context.Context, d model.Discount,
) (*model.Discount, error) {
	if err := d.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var created *model.Discount
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		created, err = uc.discounts.Conn(c).Create(ctx, &d)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating discount %q: %w", d.Code, err)
	}
	log.Info(ctx, "discount created", slog.String("code", created.Code))
	return created, nil
}
