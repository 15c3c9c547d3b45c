package repo

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// PaymentsQueryer manages the payment rows of bookings and orders.
type PaymentsQueryer interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	ByTarget(ctx context.Context, t model.PaymentTarget) (*model.Payment, error)

	// Complete marks the pending payment of t as completed with the
	// given processor transaction id. It reports whether a pending
	// payment was found and updated.
	Complete(ctx context.Context, t model.PaymentTarget, txnID string) (
		bool, error,
	)
}

type Payments interface {
	Conn(Conn) PaymentsQueryer
	Tx(Tx) PaymentsQueryer
}
