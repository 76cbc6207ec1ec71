package models

import (
	"strings"
	"time"

	"go-marketplace/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the single fulfillment status shared by every vendor on an
// order.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "Placed"
	StatusPacking        OrderStatus = "Packing"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

// ParseOrderStatus normalizes a status string. "Processing" is accepted as a
// display alias for Packing; stored values are always canonical.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "placed":
		return StatusPlaced, nil
	case "packing", "processing":
		return StatusPacking, nil
	case "shipped":
		return StatusShipped, nil
	case "out for delivery", "outfordelivery":
		return StatusOutForDelivery, nil
	case "delivered":
		return StatusDelivered, nil
	default:
		return "", errs.Validation("status", "unknown order status")
	}
}

// Address is the delivery address captured on the order. Every field is
// required.
type Address struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Country   string `bson:"country" json:"country"`
	ZipCode   string `bson:"zipcode" json:"zipcode"`
	Phone     string `bson:"phone" json:"phone"`
}

// Validate reports the first missing field.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"country", a.Country},
		{"zipcode", a.ZipCode},
		{"phone", a.Phone},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errs.Validation("address."+f.name, "must not be empty")
		}
	}
	return nil
}

// OrderLine is an immutable snapshot of a purchased item, including the
// vendor it was attributed to at order-creation time. Price, name, image and
// vendor are never re-read from the catalog afterward.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	VendorID  primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Subtotal is price × quantity for this line.
func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Order is immutable once created, except for Status and Paid.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Lines         []OrderLine        `bson:"items" json:"items"`
	Amount        float64            `bson:"amount" json:"amount"`
	Address       Address            `bson:"address" json:"address"`
	Status        OrderStatus        `bson:"status" json:"status"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"payment_method"`
	Paid          bool               `bson:"payment" json:"payment"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// HasVendor reports whether at least one line is attributed to vendorID.
func (o Order) HasVendor(vendorID primitive.ObjectID) bool {
	for _, line := range o.Lines {
		if line.VendorID == vendorID {
			return true
		}
	}
	return false
}

// ProjectForVendor returns a copy of the order with lines filtered to the
// vendor's own, and reports whether any remained. The projection is derived
// per request and never persisted.
func (o Order) ProjectForVendor(vendorID primitive.ObjectID) (Order, bool) {
	projected := o
	projected.Lines = nil
	for _, line := range o.Lines {
		if line.VendorID == vendorID {
			projected.Lines = append(projected.Lines, line)
		}
	}
	return projected, len(projected.Lines) > 0
}

// VendorRevenue sums price × quantity over the vendor's own lines only.
func (o Order) VendorRevenue(vendorID primitive.ObjectID) float64 {
	total := 0.0
	for _, line := range o.Lines {
		if line.VendorID == vendorID {
			total += line.Subtotal()
		}
	}
	return total
}
