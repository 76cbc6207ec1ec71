// Package errs defines the error taxonomy shared by the engine's services
// and mapped to HTTP statuses at the controller boundary.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers stale product references and unknown orders/carts.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a vendor acts on an order that carries
	// none of their lines.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyCart rejects checkout before any persistence happens.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoValidItems means every cart line referenced a product that no
	// longer exists, so no order could be assembled.
	ErrNoValidItems = errors.New("no valid items in cart")

	// ErrOrderDelivered rejects status changes on a delivered order.
	ErrOrderDelivered = errors.New("order already delivered")

	// ErrCartNotCleared reports that the order was persisted but the cart
	// clear failed. The order stands; the caller retries the clear, never
	// the checkout.
	ErrCartNotCleared = errors.New("order placed but cart not cleared")
)

// ValidationError reports bad input shape and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GatewayError wraps a failed call to the external payment gateway. The
// order stays persisted and unpaid; this is a recoverable state.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
