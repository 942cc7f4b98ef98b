package serviceRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"hausly/database"
	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo() ServiceRepository {
	repo := &MongoServiceRepo{coll: database.DB().Collection("services")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("services: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, svc)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid
	}
	return nil
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	var svc models.Service
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id.Hex(), err)
	}
	return &svc, nil
}

func (r *MongoServiceRepo) UpdateSetDocument(ctx context.Context, id primitive.ObjectID, updateDoc bson.M) (*models.Service, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	updateDoc["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var svc models.Service
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updateDoc}, opts).Decode(&svc)
	if err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update service %s: %w", id.Hex(), err)
	}
	return &svc, nil
}

// buildFilter translates a ServiceFilter into a query document. Search input is
// quoted so it is matched literally.
func buildFilter(f models.ServiceFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeIdle {
		filter["isActive"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.ProviderID != "" {
		filter["providerId"] = f.ProviderID
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

func (r *MongoServiceRepo) List(ctx context.Context, f models.ServiceFilter) ([]models.Service, int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := buildFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, total, nil
}

func (r *MongoServiceRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "category", bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MongoServiceRepo) ApplyReview(ctx context.Context, id primitive.ObjectID, rating int) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	// Both expressions read the pre-update document.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rating", "$reviewCount"}}},
					rating,
				}}},
				bson.D{{Key: "$add", Value: bson.A{"$reviewCount", 1}}},
			}}}},
			{Key: "reviewCount", Value: bson.D{{Key: "$add", Value: bson.A{"$reviewCount", 1}}}},
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply rating to service %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoServiceRepo) SetRatings(ctx context.Context, aggs []models.RatingAggregate) error {
	ctx, cancel := database.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	ids := make(bson.A, 0, len(aggs))
	writes := make([]mongo.WriteModel, 0, len(aggs))
	for _, a := range aggs {
		ids = append(ids, a.ServiceID)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": a.ServiceID}).
			SetUpdate(bson.M{"$set": bson.M{"rating": a.Average, "reviewCount": a.Count}}))
	}

	if len(writes) > 0 {
		if _, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("failed to write rating aggregates: %w", err)
		}
	}

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$nin": ids}, "reviewCount": bson.M{"$ne": 0}},
		bson.M{"$set": bson.M{"rating": 0, "reviewCount": 0}},
	)
	if err != nil {
		return fmt.Errorf("failed to reset unreviewed services: %w", err)
	}
	return nil
}
