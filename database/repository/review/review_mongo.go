package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/database"
	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo() ReviewRepository {
	repo := &MongoReviewRepo{coll: database.DB().Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("reviews: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	review.CreatedAt = time.Now()
	res, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrDuplicate) {
			return err
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch review %s: %w", id.Hex(), err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) ListByService(ctx context.Context, serviceID primitive.ObjectID) ([]models.Review, error) {
	return r.find(ctx, bson.M{"serviceId": serviceID})
}

func (r *MongoReviewRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	return r.find(ctx, bson.M{"providerId": providerID})
}

func (r *MongoReviewRepo) SetResponse(ctx context.Context, id primitive.ObjectID, resp models.ReviewResponse) (*models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"response": resp}}, opts).Decode(&review)
	if err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to respond to review %s: %w", id.Hex(), err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) AggregateRatings(ctx context.Context) ([]models.RatingAggregate, error) {
	ctx, cancel := database.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$serviceId"},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.RatingAggregate
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode rating aggregates: %w", err)
	}
	return out, nil
}
