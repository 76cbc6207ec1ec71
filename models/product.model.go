package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry owned by exactly one vendor. Orders never read
// back into the catalog: every field an order needs is snapshotted onto the
// order line at checkout.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VendorID    primitive.ObjectID `bson:"vendor_id" json:"vendor_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"sub_category" json:"sub_category"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// MainImage is the image reference snapshotted onto order lines.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
