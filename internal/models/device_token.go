package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceToken stores a push-notification token for a username. Delivery is
// handled outside this service; only the registry lives here.
type DeviceToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Token     string             `bson:"token" json:"token"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
