package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	ServiceID primitive.ObjectID `bson:"serviceId" json:"serviceId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
