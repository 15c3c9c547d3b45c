package repo

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// DiscountsQueryer manages the discount codes.
type DiscountsQueryer interface {
	// FindUsable returns the discount with the exact code if it is
	// active, not expired on the today date, and under its usage
	// limit. Otherwise, a cerr.NotFound error is returned.
	FindUsable(ctx context.Context, code string, today time.Time) (
		*model.Discount, error,
	)
	ByCode(ctx context.Context, code string) (*model.Discount, error)
	List(ctx context.Context) ([]model.Discount, error)
	Create(ctx context.Context, d *model.Discount) (*model.Discount, error)
}

type DiscountsConnQueryer interface {
	DiscountsQueryer
}

type DiscountsTxQueryer interface {
	DiscountsQueryer

	// Redeem increments the used count of the id discount if it is
	// still usable on the today date and reports whether it did so.
	Redeem(ctx context.Context, id int64, today time.Time) (bool, error)
}

type Discounts interface {
	Conn(Conn) DiscountsConnQueryer
	Tx(Tx) DiscountsTxQueryer
}
