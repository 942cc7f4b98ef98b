package serviceRepo

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceRepository defines data access for the service catalog.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	UpdateSetDocument(ctx context.Context, id primitive.ObjectID, updateDoc bson.M) (*models.Service, error)
	// List returns one page of services matching filter together with the total match count.
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int64, error)
	// DistinctCategories returns the category values present on active services.
	DistinctCategories(ctx context.Context) ([]string, error)
	// ApplyReview folds a single new rating into the running mean.
	ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) error
	// SetRatings overwrites rating aggregates; services absent from aggs are reset to zero.
	SetRatings(ctx context.Context, aggs []models.RatingAggregate) error
}
