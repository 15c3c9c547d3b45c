// Package payment exports the payment processor interface. Amounts are
// passed in the smallest currency unit (cents).
package payment

import (
	"context"

	"github.com/futuremech/fmweb/pkg/core/model"
)

// Processor creates and inspects payment intents at a third-party
// payment processor.
type Processor interface {
	CreateIntent(
		ctx context.Context, amount int64, metadata map[string]string,
	) (*model.PaymentIntent, error)
	Intent(ctx context.Context, id string) (*model.PaymentIntent, error)
}
