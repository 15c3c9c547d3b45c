// Package ordersrp implements the repo.Orders, repo.Discounts, and
// repo.Payments repositories which take part in the checkout and the
// payment transactions.
package ordersrp

import (
	"context"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/db/postgres"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/repo"
	"github.com/shopspring/decimal"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (orders *Repo) Conn(c repo.Conn) repo.OrdersConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (orders *Repo) Tx(tx repo.Tx) repo.OrdersTxQueryer {
	return txQueryer{queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (oq queryer[Q]) ByID(ctx context.Context, id int64) (*model.Order, error) {
	return ByID(ctx, oq.q, id)
}

func (oq queryer[Q]) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Order, error) {
	return List(ctx, oq.q, userID, limit)
}

func (oq queryer[Q]) List(ctx context.Context, limit int) ([]model.Order, error) {
	return List(ctx, oq.q, 0, limit)
}

func (oq queryer[Q]) Count(ctx context.Context) (int64, error) {
	return Count(ctx, oq.q)
}

func (oq queryer[Q]) Revenue(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	return Revenue(ctx, oq.q, since)
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (tq txQueryer) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	return Create(ctx, tq.q, o)
}

func (tq txQueryer) MarkPaid(ctx context.Context, id int64) error {
	return MarkPaid(ctx, tq.q, id)
}
