package repo

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// VehiclesQueryer manages the client vehicles. Creating a vehicle with
// a registration number which is already used by the same owner fails
// with a cerr.Conflict error.
type VehiclesQueryer interface {
	Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Vehicle, error)
	ByIDForOwner(ctx context.Context, id, ownerID int64) (
		*model.Vehicle, error,
	)
}

type Vehicles interface {
	Conn(Conn) VehiclesQueryer
	Tx(Tx) VehiclesQueryer
}
