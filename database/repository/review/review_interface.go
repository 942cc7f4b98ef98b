package reviewRepo

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewRepository defines data access for reviews. A booking carries at most one review.
type ReviewRepository interface {
	// Create returns database.ErrDuplicate when the booking already has a review.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	ListByService(ctx context.Context, serviceID primitive.ObjectID) ([]models.Review, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
	SetResponse(ctx context.Context, id primitive.ObjectID, resp models.ReviewResponse) (*models.Review, error)
	// AggregateRatings recomputes average and count per service from stored reviews.
	AggregateRatings(ctx context.Context) ([]models.RatingAggregate, error)
}
