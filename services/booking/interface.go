package booking

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService defines booking lifecycle operations. Every call takes the
// caller's session explicitly; nothing is read from request-global state.
type BookingService interface {
	// CreateBooking validates the caller and target service, then persists a pending
	// booking priced from the stored service. idemKey may be empty.
	CreateBooking(ctx context.Context, id models.Identity, req models.CreateBookingRequest, idemKey string) (*CreateResult, error)
	// UpdateStatus applies a status transition on behalf of sess.
	UpdateStatus(ctx context.Context, sess *models.Session, bookingID, status string) (*StatusResult, error)
	// Cancel is UpdateStatus with status cancelled.
	Cancel(ctx context.Context, sess *models.Session, bookingID string) (*StatusResult, error)
	GetBooking(ctx context.Context, sess *models.Session, bookingID string) (*models.Booking, error)
	// ListCustomerBookings and ListProviderBookings page newest first.
	ListCustomerBookings(ctx context.Context, sess *models.Session, f models.BookingListFilter) (*models.BookingPage, error)
	ListProviderBookings(ctx context.Context, sess *models.Session, f models.BookingListFilter) (*models.BookingPage, error)
	PendingCount(ctx context.Context, sess *models.Session) (int64, error)
}

// UserLookup resolves a persisted user by auth UID.
type UserLookup interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

// ServiceLookup resolves a catalog service by id.
type ServiceLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
}

// Dispatcher fans booking events out to side channels. Failures never roll back a booking.
type Dispatcher interface {
	BookingCreated(ctx context.Context, b *models.Booking) error
	StatusChanged(ctx context.Context, b *models.Booking, actorUID string) error
	ScheduleReminder(ctx context.Context, b *models.Booking) error
}

// CreateResult is returned by CreateBooking. Replayed is set when an
// idempotency key matched an earlier successful request.
type CreateResult struct {
	Booking      *models.Booking
	ServiceTitle string
	ProviderName string
	Replayed     bool
}

// StatusResult is returned by UpdateStatus. Changed is false for same-status requests.
type StatusResult struct {
	Booking *models.Booking
	Changed bool
}
