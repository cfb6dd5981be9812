package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

type User struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name"`
	Email         string               `json:"email" bson:"email"`
	Password      string               `json:"-" bson:"password"`
	PhoneNumber   string               `json:"phoneNumber" bson:"phoneNumber"`
	IsAdmin       bool                 `json:"isAdmin" bson:"isAdmin"`
	Cart          Cart                 `json:"cart" bson:"cart"`
	Notifications []Notification       `json:"notifications" bson:"notifications"`
	Orders        []primitive.ObjectID `json:"orders" bson:"orders"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
}

// Cart is embedded in the user document. Items maps a product id (hex) to
// the quantity held.
type Cart struct {
	Total float64        `json:"total" bson:"total"`
	Count int            `json:"count" bson:"count"`
	Items map[string]int `json:"items" bson:"items"`
}

type Notification struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Status  string             `json:"status" bson:"status"`
	Message string             `json:"message" bson:"message"`
	Time    time.Time          `json:"time" bson:"time"`
}

// UserWithOrders is the admin view of a customer with its orders resolved.
type UserWithOrders struct {
	User
	Orders []Order `json:"orders"`
}
