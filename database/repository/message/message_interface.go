package messageRepo

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageRepository defines data access for booking chat messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListByBooking returns up to limit messages, newest first.
	ListByBooking(ctx context.Context, bookingID primitive.ObjectID, limit int64) ([]models.Message, error)
	// MarkRead flags every unread message addressed to recipientID and returns how many changed.
	MarkRead(ctx context.Context, bookingID primitive.ObjectID, recipientID string) (int64, error)
}
