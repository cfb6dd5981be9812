package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
)

type Order struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Products map[string]int     `json:"products" bson:"products"`
	Owner    primitive.ObjectID `json:"owner" bson:"owner"`
	Status   string             `json:"status" bson:"status"`
	Total    float64            `json:"total" bson:"total"`
	Count    int                `json:"count" bson:"count"`
	Date     time.Time          `json:"date" bson:"date"`
	Address  string             `json:"address" bson:"address"`
	Country  string             `json:"country" bson:"country"`
}

type OrderOwner struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// OrderWithOwner replaces the owner id with the owner's name and email.
type OrderWithOwner struct {
	Order
	Owner OrderOwner `json:"owner"`
}
