package services

import (
	"context"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FulfillmentService owns the lifecycle status of persisted orders and the
// vendor-scoped views over them. The status field is a single value shared
// by every vendor on the order: a change by one vendor is visible to all.
type FulfillmentService struct {
	orders repository.OrderRepository
	log    zerolog.Logger
}

// NewFulfillmentService creates a FulfillmentService.
func NewFulfillmentService(orders repository.OrderRepository, log zerolog.Logger) *FulfillmentService {
	return &FulfillmentService{orders: orders, log: log}
}

// SetStatus moves the order to the given status on behalf of a vendor. The
// vendor must own at least one line on the order. Any known status may be
// set directly; the one transition not defined is out of Delivered.
func (s *FulfillmentService) SetStatus(ctx context.Context, vendorID, orderID primitive.ObjectID, status models.OrderStatus) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.HasVendor(vendorID) {
		return errs.ErrForbidden
	}
	if order.Status == models.StatusDelivered && status != models.StatusDelivered {
		return errs.ErrOrderDelivered
	}
	if err := s.orders.SetStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.log.Info().
		Str("order_id", orderID.Hex()).
		Str("vendor_id", vendorID.Hex()).
		Str("status", string(status)).
		Msg("order status updated")
	return nil
}

// ListForVendor returns the vendor's projection of every order that carries
// at least one of their lines, newest first. Projections with no remaining
// lines are dropped.
func (s *FulfillmentService) ListForVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	projected := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if view, ok := order.ProjectForVendor(vendorID); ok {
			projected = append(projected, view)
		}
	}
	return projected, nil
}

// ListForBuyer returns the buyer's full orders, newest first.
func (s *FulfillmentService) ListForBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByBuyer(ctx, buyerID)
}

// Get returns one full order.
func (s *FulfillmentService) Get(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}
