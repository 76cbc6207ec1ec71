package payment

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// StripeGateway drives Stripe Checkout Sessions. The whole order amount is
// charged as a single "Order Payment" line item in minor units; the success
// URL carries the session and order identifiers so the storefront can call
// verify when the shopper returns.
type StripeGateway struct {
	currency string
	origin   string
}

// NewStripeGateway configures the global stripe client and returns a
// gateway whose return URLs point at the storefront origin.
func NewStripeGateway(apiKey, currency, origin string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{currency: currency, origin: origin}
}

func (g *StripeGateway) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&order_id=%s",
		g.origin, url.QueryEscape(req.OrderID))
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order Payment"),
					},
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(g.origin + "/cart"),
	}

	created, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &Session{Ref: created.ID, RedirectURL: created.URL}, nil
}

func (g *StripeGateway) SessionPaid(_ context.Context, ref string) (bool, error) {
	retrieved, err := session.Get(ref, nil)
	if err != nil {
		return false, err
	}
	return retrieved.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
