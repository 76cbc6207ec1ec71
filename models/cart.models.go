package models

import (
	"sort"

	"go-marketplace/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartData maps productID -> size -> quantity. Absence of a size key means
// zero; a product with no sizes left is removed entirely. No stored quantity
// is ever <= 0.
type CartData map[string]map[string]int

// Cart is the server-held copy of a shopper's cart.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  CartData           `bson:"items" json:"items"`
}

// CartLine is one (product, size, quantity) tuple flattened out of CartData.
type CartLine struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// NewCartData returns an empty, mutable cart.
func NewCartData() CartData {
	return make(CartData)
}

// Add increments the quantity for (productID, size) by qty.
func (c CartData) Add(productID, size string, qty int) error {
	if productID == "" {
		return errs.Validation("product_id", "must not be empty")
	}
	if size == "" {
		return errs.Validation("size", "must not be empty")
	}
	if qty < 1 {
		return errs.Validation("quantity", "must be at least 1")
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = make(map[string]int)
		c[productID] = sizes
	}
	sizes[size] += qty
	return nil
}

// SetQuantity sets the quantity for (productID, size). A qty <= 0 deletes the
// size entry, and the product entry once it has no sizes left.
func (c CartData) SetQuantity(productID, size string, qty int) error {
	if productID == "" {
		return errs.Validation("product_id", "must not be empty")
	}
	if size == "" {
		return errs.Validation("size", "must not be empty")
	}
	if qty <= 0 {
		sizes, ok := c[productID]
		if ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(c, productID)
			}
		}
		return nil
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = make(map[string]int)
		c[productID] = sizes
	}
	sizes[size] = qty
	return nil
}

// Count sums every stored quantity.
func (c CartData) Count() int {
	total := 0
	for _, sizes := range c {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

// Lines flattens the cart into a sorted slice so order assembly and
// responses are deterministic.
func (c CartData) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for productID, sizes := range c {
		for size, qty := range sizes {
			lines = append(lines, CartLine{ProductID: productID, Size: size, Quantity: qty})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].Size < lines[j].Size
	})
	return lines
}

// Clone deep-copies the cart so a mutation can be discarded when mirroring
// it to the store fails.
func (c CartData) Clone() CartData {
	out := make(CartData, len(c))
	for productID, sizes := range c {
		copied := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			copied[size] = qty
		}
		out[productID] = copied
	}
	return out
}

// ReconcileCarts merges a client-cached cart with the server-held copy. The
// server copy is authoritative whenever it holds anything; otherwise the
// local cart is adopted.
func ReconcileCarts(local, server CartData) CartData {
	if server.Count() > 0 {
		return server
	}
	if local == nil {
		return NewCartData()
	}
	return local
}
