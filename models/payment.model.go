package models

import (
	"strings"

	"go-marketplace/errs"
)

// PaymentMethod selects the checkout payment branch.
type PaymentMethod string

const (
	// PaymentCOD settles on delivery; the order is usable immediately with
	// Paid=false.
	PaymentCOD PaymentMethod = "COD"
	// PaymentStripe redirects to a hosted gateway session and is confirmed
	// by a later verify call.
	PaymentStripe PaymentMethod = "Stripe"
)

// ParsePaymentMethod normalizes a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cod", "cash on delivery":
		return PaymentCOD, nil
	case "stripe":
		return PaymentStripe, nil
	default:
		return "", errs.Validation("payment_method", "must be COD or Stripe")
	}
}
