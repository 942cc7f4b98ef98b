package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat entry tied to a booking.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID   primitive.ObjectID `bson:"bookingId" json:"bookingId"`
	SenderID    string             `bson:"senderId" json:"senderId"`
	SenderName  string             `bson:"senderName,omitempty" json:"senderName,omitempty"`
	RecipientID string             `bson:"recipientId" json:"recipientId"`
	Content     string             `bson:"content" json:"content"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type SendMessageRequest struct {
	BookingID string `json:"bookingId" binding:"required,objectid"`
	Content   string `json:"content" binding:"required,min=1,max=4000"`
}
