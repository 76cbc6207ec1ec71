// Package payment branches checkout between the synchronous pay-on-delivery
// path and the asynchronous hosted-gateway path, and settles the latter via
// a client-driven verify call.
package payment

import (
	"context"
	"errors"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a hosted payment session created by the gateway.
type Session struct {
	Ref         string
	RedirectURL string
}

// SessionRequest binds a session to an order's fixed amount. The order id
// rides on the return URL so the shopper's browser can resume verification.
type SessionRequest struct {
	OrderID string
	Amount  float64
}

// Gateway is the external payment collaborator.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	SessionPaid(ctx context.Context, ref string) (bool, error)
}

// Mailer sends the payment-confirmed receipt. May be nil.
type Mailer interface {
	SendPaymentConfirmation(email string, order models.Order) error
}

// InitiateResult is the outcome of dispatching an order to its payment
// branch: either the payment path completed synchronously, or the caller
// must redirect the shopper to the gateway.
type InitiateResult struct {
	Completed   bool
	RedirectURL string
}

// Service is the Payment Adapter.
type Service struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	gateway Gateway
	mailer  Mailer
	log     zerolog.Logger
}

// NewService creates a payment Service. gateway may be nil when only COD is
// offered; mailer may be nil.
func NewService(orders repository.OrderRepository, users repository.UserRepository, gateway Gateway, mailer Mailer, log zerolog.Logger) *Service {
	return &Service{orders: orders, users: users, gateway: gateway, mailer: mailer, log: log}
}

// Initiate dispatches a freshly persisted order to its payment branch. COD
// completes immediately with the order unpaid. The gateway branch creates a
// hosted session bound to the order's amount and returns its redirect URL;
// the order stays persisted and unpaid if the gateway call fails.
func (s *Service) Initiate(ctx context.Context, order *models.Order) (*InitiateResult, error) {
	switch order.PaymentMethod {
	case models.PaymentCOD:
		return &InitiateResult{Completed: true}, nil
	case models.PaymentStripe:
		if s.gateway == nil {
			return nil, &errs.GatewayError{Op: "create session", Err: errors.New("gateway not configured")}
		}
		session, err := s.gateway.CreateSession(ctx, SessionRequest{
			OrderID: order.ID.Hex(),
			Amount:  order.Amount,
		})
		if err != nil {
			s.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("gateway session creation failed")
			return nil, &errs.GatewayError{Op: "create session", Err: err}
		}
		return &InitiateResult{RedirectURL: session.RedirectURL}, nil
	default:
		return nil, errs.Validation("payment_method", "unknown payment method")
	}
}

// Verify queries the gateway for the session's settlement status and marks
// the order paid when settled. Verifying an already-paid order is a no-op
// returning true, so retries never double-charge and never hit the gateway
// again.
func (s *Service) Verify(ctx context.Context, sessionRef string, orderID primitive.ObjectID) (bool, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Paid {
		return true, nil
	}
	if sessionRef == "" {
		return false, errs.Validation("session_ref", "must not be empty")
	}
	if s.gateway == nil {
		return false, &errs.GatewayError{Op: "get session", Err: errors.New("gateway not configured")}
	}

	paid, err := s.gateway.SessionPaid(ctx, sessionRef)
	if err != nil {
		return false, &errs.GatewayError{Op: "get session", Err: err}
	}
	if !paid {
		return false, nil
	}
	if err := s.orders.SetPaid(ctx, orderID, true); err != nil {
		return false, err
	}
	order.Paid = true

	if s.mailer != nil {
		buyer, err := s.users.FindByID(ctx, order.UserID)
		if err == nil {
			go func(email string, order models.Order) {
				if err := s.mailer.SendPaymentConfirmation(email, order); err != nil {
					s.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("payment confirmation email failed")
				}
			}(buyer.Email, *order)
		}
	}
	return true, nil
}
