package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/shopspring/decimal"
)

// OrdersQueryer manages the orders and their items.
type OrdersQueryer interface {
	ByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, limit int) (
		[]model.Order, error,
	)
	List(ctx context.Context, limit int) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
	// Revenue sums the total prices of the paid orders which are created
	// at or after since (or ever, if since is nil).
	Revenue(ctx context.Context, since *time.Time) (decimal.Decimal, error)
}

type OrdersConnQueryer interface {
	OrdersQueryer
}

// OrdersTxQueryer adds the order mutations which take place in the
// checkout and payment transactions.
type OrdersTxQueryer interface {
	OrdersQueryer

	// Create inserts o and its items, filling their ids.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)
	MarkPaid(ctx context.Context, id int64) error
}

type Orders interface {
	Conn(Conn) OrdersConnQueryer
	Tx(Tx) OrdersTxQueryer
}
