package repo

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// ServicesQueryer manages the bookable catalog services.
type ServicesQueryer interface {
	List(ctx context.Context, f model.ServiceFilter) ([]model.Service, error)
	ByID(ctx context.Context, id int64) (*model.Service, error)
	Create(ctx context.Context, s *model.Service) (*model.Service, error)
	Update(ctx context.Context, s *model.Service) (*model.Service, error)
	Delete(ctx context.Context, id int64) error
}

type Services interface {
	Conn(Conn) ServicesQueryer
	Tx(Tx) ServicesQueryer
}

// PartsQueryer manages the car parts catalog.
type PartsQueryer interface {
	List(ctx context.Context, f model.PartFilter) ([]model.CarPart, error)
	Categories(ctx context.Context) ([]string, error)
	ByID(ctx context.Context, id int64) (*model.CarPart, error)
	ByIDs(ctx context.Context, ids []int64) ([]model.CarPart, error)
	Create(ctx context.Context, p *model.CarPart) (*model.CarPart, error)
	Update(ctx context.Context, p *model.CarPart) (*model.CarPart, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context, threshold int) ([]model.CarPart, error)
}

type PartsConnQueryer interface {
	PartsQueryer
}

// PartsTxQueryer adds the stock mutation which must only run in the
// checkout transaction.
type PartsTxQueryer interface {
	PartsQueryer

	// DecrementStock removes qty items of an active part from the
	// stock if and only if at least qty items are available. It
	// reports whether the stock was updated.
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)
}

type Parts interface {
	Conn(Conn) PartsConnQueryer
	Tx(Tx) PartsTxQueryer
}
