package favoriteRepo

import (
	"context"
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

// FavoriteRepository stores the services a user has saved.
type FavoriteRepository interface {
	// Add is idempotent.
	Add(ctx context.Context, userID string, serviceID primitive.ObjectID) error
	Remove(ctx context.Context, userID string, serviceID primitive.ObjectID) error
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}

type MongoFavoriteRepo struct {
	coll *mongo.Collection
}

func NewMongoFavoriteRepo() FavoriteRepository {
	repo := &MongoFavoriteRepo{coll: database.DB().Collection("favorites")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "serviceId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		zap.L().Warn("favorites: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoFavoriteRepo) Add(ctx context.Context, userID string, serviceID primitive.ObjectID) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	filter := bson.M{"userId": userID, "serviceId": serviceID}
	update := bson.M{"$setOnInsert": bson.M{"userId": userID, "serviceId": serviceID, "createdAt": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *MongoFavoriteRepo) Remove(ctx context.Context, userID string, serviceID primitive.ObjectID) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "serviceId": serviceID}); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *MongoFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := []models.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}
