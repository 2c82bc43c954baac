package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. ProductID is the business key used by orders
// and wishlists; the Mongo ObjectID is internal.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID   string             `bson:"productID" json:"productID"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       int64              `bson:"price" json:"price"` // minor currency units
	Stock       int64              `bson:"stock" json:"stock"`
	Images      []string           `bson:"images" json:"images"`
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the lead catalog image, or "" when none exist. Order
// snapshots store this single image.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
