package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"hausly/database"
	reviewRepo "hausly/database/repository/review"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewService manages customer reviews of completed bookings.
type ReviewService interface {
	Create(ctx context.Context, sess *models.Session, req models.CreateReviewRequest) (*models.Review, error)
	ListByService(ctx context.Context, serviceID string) ([]models.Review, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
	Respond(ctx context.Context, sess *models.Session, reviewID, comment string) (*models.Review, error)
	// Reconcile recomputes every service's rating aggregates from stored reviews.
	Reconcile(ctx context.Context) (int, error)
}

type BookingLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}

// RatingWriter maintains the denormalized rating fields on services.
type RatingWriter interface {
	ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) error
	SetRatings(ctx context.Context, aggs []models.RatingAggregate) error
}

type DefaultReviewService struct {
	Repo     reviewRepo.ReviewRepository
	Bookings BookingLookup
	Ratings  RatingWriter
	Logger   *zap.Logger
}

func (s *DefaultReviewService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultReviewService) Create(ctx context.Context, sess *models.Session, req models.CreateReviewRequest) (*models.Review, error) {
	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return nil, utils.NewValidationError(utils.CodeInvalidID, "Invalid booking ID format")
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeBookingNotFound, "Booking not found")
		}
		return nil, err
	}
	if b.UserID != sess.UID {
		return nil, utils.NewForbiddenError(utils.CodeNotParticipant, "Only the customer of this booking can review it")
	}
	if b.Status != models.StatusCompleted {
		return nil, utils.NewValidationError(utils.CodeBookingNotCompleted, "Only completed bookings can be reviewed")
	}

	r := &models.Review{
		BookingID:  b.ID,
		ServiceID:  b.ServiceID,
		ProviderID: b.ProviderID,
		CustomerID: sess.UID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if sess.User != nil {
		r.CustomerName = sess.User.Name
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.NewConflictError(utils.CodeReviewExists, "This booking has already been reviewed")
		}
		return nil, err
	}

	// The nightly reconcile repairs any drift if this fails.
	if err := s.Ratings.ApplyReview(ctx, b.ServiceID, req.Rating); err != nil {
		s.log().Warn("Create review: failed to update service rating", zap.String("serviceId", b.ServiceID.Hex()), zap.Error(err))
	}
	return r, nil
}

func (s *DefaultReviewService) ListByService(ctx context.Context, serviceID string) ([]models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, utils.NewValidationError(utils.CodeInvalidID, "Invalid service ID format")
	}
	return s.Repo.ListByService(ctx, oid)
}

func (s *DefaultReviewService) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	return s.Repo.ListByProvider(ctx, providerID)
}

func (s *DefaultReviewService) Respond(ctx context.Context, sess *models.Session, reviewID, comment string) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, utils.NewValidationError(utils.CodeInvalidID, "Invalid review ID format")
	}
	r, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeReviewNotFound, "Review not found")
		}
		return nil, err
	}
	if r.ProviderID != sess.UID {
		return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "Only the reviewed provider can respond")
	}
	return s.Repo.SetResponse(ctx, oid, models.ReviewResponse{
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	})
}

func (s *DefaultReviewService) Reconcile(ctx context.Context) (int, error) {
	aggs, err := s.Repo.AggregateRatings(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Ratings.SetRatings(ctx, aggs); err != nil {
		return 0, err
	}
	return len(aggs), nil
}
