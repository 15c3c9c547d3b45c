// Package stripe implements the payment.Processor interface using the
// Stripe PaymentIntents API.
package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Options configures the Stripe client.
type Options struct {
	SecretKey string
	Currency  string // defaults to "usd"

	// URL overrides the API endpoint, e.g., for a local mock server.
	URL string
}

// Processor creates and reads payment intents.
type Processor struct {
	api      *client.API
	currency string
}

func New(opts Options) (*Processor, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if opts.Currency == "" {
		opts.Currency = string(stripe.CurrencyUSD)
	}
	var backends *stripe.Backends
	if opts.URL != "" {
		backends = stripe.NewBackendsWithConfig(&stripe.BackendConfig{
			URL:               stripe.String(opts.URL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
		})
	}
	return &Processor{
		api:      client.New(opts.SecretKey, backends),
		currency: opts.Currency,
	}, nil
}

// CreateIntent creates an intent of amount (in the smallest currency
// unit) which accepts the payment methods of the dashboard.
func (p *Processor) CreateIntent(
	ctx context.Context, amount int64, metadata map[string]string,
) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	return intent(pi), nil
}

func (p *Processor) Intent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent %q: %w", id, err)
	}
	return intent(pi), nil
}

func intent(pi *stripe.PaymentIntent) *model.PaymentIntent {
	return &model.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
		Metadata:     pi.Metadata,
	}
}
