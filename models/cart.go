package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a line item inside a cart. There is at most one per product.
type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Cart is the single cart document of a user. Version is bumped on every
// write and used for optimistic concurrency.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	Version   int64              `json:"-" bson:"version"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ResolvedItem is a line item with its product expanded. Product is nil when
// the product no longer exists in the catalog.
type ResolvedItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// ResolvedCart is the cart shape returned to API clients.
type ResolvedCart struct {
	ID        primitive.ObjectID `json:"id"`
	UserID    primitive.ObjectID `json:"user_id"`
	Items     []ResolvedItem     `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
