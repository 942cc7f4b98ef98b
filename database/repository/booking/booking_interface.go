package bookingRepo

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	// CreateForActiveService inserts booking only if its service still exists and is
	// active at write time. Returns database.ErrServiceUnavailable otherwise.
	CreateForActiveService(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	List(ctx context.Context, q models.BookingQuery) ([]models.Booking, error)
	// UpdateStatus moves a booking from one status to another. When the stored status
	// no longer equals from, nothing is written and database.ErrNotFound is returned.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Booking, error)
	CountByProviderStatus(ctx context.Context, providerID string, status models.BookingStatus) (int64, error)
}
