package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewResponse is the provider's optional reply to a review.
type ReviewResponse struct {
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID    primitive.ObjectID `bson:"bookingId" json:"bookingId"`
	ServiceID    primitive.ObjectID `bson:"serviceId" json:"serviceId"`
	ProviderID   string             `bson:"providerId" json:"providerId"`
	CustomerID   string             `bson:"customerId" json:"customerId"`
	CustomerName string             `bson:"customerName" json:"customerName"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	Response     *ReviewResponse    `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type CreateReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required,objectid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"omitempty,max=2000"`
}

type ReviewResponseRequest struct {
	Comment string `json:"comment" binding:"required,min=1,max=2000"`
}

// RatingAggregate is the recomputed rating for one service.
type RatingAggregate struct {
	ServiceID primitive.ObjectID `bson:"_id"`
	Average   float64            `bson:"average"`
	Count     int                `bson:"count"`
}
