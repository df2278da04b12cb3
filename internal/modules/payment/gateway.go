// README: Stripe-backed payment gateway.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"toptransfer/internal/types"
)

type Gateway interface {
	CreateIntent(ctx context.Context, amount types.Money) (Intent, error)
	GetIntent(ctx context.Context, id string) (Intent, error)
	ConfirmIntent(ctx context.Context, id, paymentMethodID string) (Intent, error)
}

type StripeGateway struct {
	api *client.API
}

// NewStripeGateway uses the default Stripe backends when backends is nil.
func NewStripeGateway(secretKey string, backends *stripe.Backends) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount types.Money) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Amount),
		Currency: stripe.String(strings.ToLower(amount.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, err
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, err
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, id, paymentMethodID string) (Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return Intent{}, err
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       types.Money{Amount: pi.Amount, Currency: strings.ToUpper(string(pi.Currency))},
	}
}

// providerMessage prefers the human-readable Stripe message.
func providerMessage(err error) string {
	var serr *stripe.Error
	if errors.As(err, &serr) && serr.Msg != "" {
		return serr.Msg
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return errInternalServer
}
