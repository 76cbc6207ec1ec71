// Package repository defines the store ports the engine runs on and their
// MongoDB implementations. Services depend on the interfaces only, so unit
// tests run against the in-memory versions in memory.go.
package repository

import (
	"context"

	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartRepository holds the server-side cart mirror, one document per shopper.
type CartRepository interface {
	// Get returns the cart items for a shopper, or errs.ErrNotFound when no
	// cart document exists yet.
	Get(ctx context.Context, userID primitive.ObjectID) (models.CartData, error)
	// Save upserts the full cart document for a shopper.
	Save(ctx context.Context, userID primitive.ObjectID, items models.CartData) error
	// Clear empties the shopper's cart. Clearing an absent cart is a no-op.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// ProductRepository is the catalog store.
type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Product, error)
	CountByVendor(ctx context.Context, vendorID primitive.ObjectID) (int64, error)
	Insert(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	// Delete removes a product only if it belongs to vendorID.
	Delete(ctx context.Context, id, vendorID primitive.ObjectID) error
}

// OrderRepository persists orders. Only Status and Paid are ever rewritten
// after insert.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindByBuyer returns the buyer's orders, newest first.
	FindByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]models.Order, error)
	// FindByVendor returns orders containing at least one line attributed to
	// the vendor, newest first, unfiltered (projection happens in the service).
	FindByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	SetPaid(ctx context.Context, id primitive.ObjectID, paid bool) error
}

// UserRepository resolves shopper records for receipts.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
