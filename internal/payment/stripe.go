// Package payment creates card payment intents with Stripe.
package payment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// CreateIntent creates a card-only payment intent. amount is expressed in
// the smallest unit of currency (paise for inr).
func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create payment intent")
	}
	return pi, nil
}

// ErrorMessage returns the human readable message of a Stripe error, or the
// error text for anything else.
func ErrorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
