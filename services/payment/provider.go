package payment

import (
	"context"
	"fmt"
	"os"

	"github.com/vendora-labs/multivendor-api/models"
)

// Status is the provider-side state of a payment.
type Status string

const (
	StatusCaptured Status = "captured"
	StatusPending  Status = "pending"
	StatusFailed   Status = "failed"
)

// LinkRequest describes the hosted payment link to create. Amount is in whole
// currency units; providers convert to their own subunits.
type LinkRequest struct {
	Amount        int64
	Currency      string
	ReceiptID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CallbackURL   string
}

// PaymentLink is the provider's handle for a created payment.
type PaymentLink struct {
	ID  string
	URL string
}

// Provider abstracts the external payment gateway. Both calls hit the network
// and must respect the context deadline; failures surface as
// errs.ErrExternalProvider so callers can tell an outage from a declined
// payment.
type Provider interface {
	CreatePaymentLink(ctx context.Context, req LinkRequest) (PaymentLink, error)
	FetchPaymentStatus(ctx context.Context, paymentID string) (Status, error)
}

// NewProviderFromEnv builds the provider for the given payment method.
func NewProviderFromEnv(method models.PaymentMethod) (Provider, error) {
	switch method {
	case models.PaymentMethodStripe:
		key := os.Getenv("STRIPE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("stripe configuration missing")
		}
		return NewStripeProvider(key), nil
	case models.PaymentMethodRazorpay:
		return NewRazorpayClientFromEnv()
	default:
		return nil, fmt.Errorf("unknown payment method %q", method)
	}
}
