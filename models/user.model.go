package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the slice of the shopper record this engine needs: identity plus
// an email address for order receipts. Registration and credential flows
// live outside this service.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
