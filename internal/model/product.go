package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryAll selects every product when listing by category.
const CategoryAll = "all"

type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Pictures    []Picture          `json:"pictures" bson:"pictures"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Picture references an asset on the image host.
type Picture struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

type ProductDetails struct {
	Product *Product  `json:"product"`
	Similar []Product `json:"similar"`
}
