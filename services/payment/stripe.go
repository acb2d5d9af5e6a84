package payment

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/vendora-labs/multivendor-api/errs"
)

// StripeProvider creates hosted Checkout sessions and looks up payment
// intents through the official Stripe SDK.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	return &StripeProvider{api: client.New(apiKey, nil)}
}

func (p *StripeProvider) CreatePaymentLink(ctx context.Context, req LinkRequest) (PaymentLink, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.CallbackURL),
		CancelURL:  stripe.String(req.CallbackURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(req.Amount * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Order " + req.ReceiptID),
				},
			},
		}},
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.SetIdempotencyKey(req.ReceiptID)

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return PaymentLink{}, errs.Providerf("stripe: create checkout session: %v", err)
	}
	return PaymentLink{ID: session.ID, URL: session.URL}, nil
}

func (p *StripeProvider) FetchPaymentStatus(ctx context.Context, paymentID string) (Status, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.Get(paymentID, params)
	if err != nil {
		return "", errs.Providerf("stripe: lookup payment intent: %v", err)
	}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCaptured, nil
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}
