// Package vehicleuc contains the use cases of the client vehicles.
package vehicleuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
)

// UseCase represents the vehicle use cases.
type UseCase struct {
	pool     repo.Pool
	vehicles repo.Vehicles
	now      func() time.Time
}

// Option is a functional option for the vehicle use case.
type Option func(uc *UseCase) error

// WithClock option configures the function which reports the current
// time. The newest accepted model year is the next year of its value.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// New instantiates a vehicle use case.
func New(p repo.Pool, vehicles repo.Vehicles, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, vehicles: vehicles}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// List returns the vehicles of the ownerID client, newest first.
func (uc *UseCase) List(ctx context.Context, ownerID int64) (
	vv []model.Vehicle, err error,
) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		vv, err = uc.vehicles.Conn(c).ListByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	return vv, nil
}

// Add registers v for the ownerID client.
func (uc *UseCase) Add(
	ctx context.Context, ownerID int64, v model.Vehicle,
) (*model.Vehicle, error) {
	v.OwnerID = ownerID
	if err := v.Validate(uc.now()); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var created *model.Vehicle
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		created, err = uc.vehicles.Conn(c).Create(ctx, &v)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding vehicle: %w", err)
	}
	log.Info(
		ctx, "vehicle added",
		log.ID("vehicle", created.ID), log.ID("user", ownerID),
	)
	return created, nil
}
