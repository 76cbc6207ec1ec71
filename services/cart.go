// Package services holds the engine core: cart store, checkout
// orchestration, vendor-scoped fulfillment, and the vendor dashboard
// aggregator. Services depend on repository ports only.
package services

import (
	"context"
	"errors"
	"fmt"

	"go-marketplace/errs"
	"go-marketplace/models"
	"go-marketplace/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService is the Cart Store: it owns the server-held cart mirror and
// applies every mutation copy-first, so a failed write to the store keeps
// nothing (either both copies change or neither does).
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewCartService creates a CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

// load returns the shopper's cart, treating an absent document as empty. The
// cart document itself is created lazily on first mutation.
func (s *CartService) load(ctx context.Context, userID primitive.ObjectID) (models.CartData, error) {
	items, err := s.carts.Get(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return models.NewCartData(), nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Add increments (productID, size) by qty and mirrors the result to the
// store. A qty of 0 defaults to 1.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, productID, size string, qty int) (models.CartData, error) {
	if qty == 0 {
		qty = 1
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := cart.Clone()
	if err := updated.Add(productID, size, qty); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("mirror cart add: %w", err)
	}
	return updated, nil
}

// SetQuantity sets (productID, size) to qty, deleting the entry when qty <= 0,
// and mirrors the result to the store.
func (s *CartService) SetQuantity(ctx context.Context, userID primitive.ObjectID, productID, size string, qty int) (models.CartData, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := cart.Clone()
	if err := updated.SetQuantity(productID, size, qty); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("mirror cart update: %w", err)
	}
	return updated, nil
}

// Get returns the server-held cart.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (models.CartData, error) {
	return s.load(ctx, userID)
}

// Reconcile merges a client-cached cart with the server copy. The server
// copy wins whenever it holds anything; otherwise the pushed local cart is
// adopted and persisted. The local cart is re-validated entry by entry so a
// tampered payload cannot break the quantity invariant.
func (s *CartService) Reconcile(ctx context.Context, userID primitive.ObjectID, local models.CartData) (models.CartData, error) {
	server, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := models.ReconcileCarts(local, server)
	if server.Count() > 0 {
		return merged, nil
	}

	adopted := models.NewCartData()
	for _, line := range merged.Lines() {
		if err := adopted.Add(line.ProductID, line.Size, line.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.carts.Save(ctx, userID, adopted); err != nil {
		return nil, fmt.Errorf("adopt local cart: %w", err)
	}
	return adopted, nil
}

// Amount sums catalog price × quantity over the cart. Lines whose product no
// longer resolves are skipped and logged, never summed; checkout reports the
// same lines as a prune advisory.
func (s *CartService) Amount(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, line := range cart.Lines() {
		id, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			s.log.Warn().Str("product_id", line.ProductID).Msg("skipping malformed cart line")
			continue
		}
		product, err := s.products.FindByID(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Warn().Str("product_id", line.ProductID).Msg("skipping stale cart line")
			continue
		}
		if err != nil {
			return 0, err
		}
		total += product.Price * float64(line.Quantity)
	}
	return total, nil
}
