package messageRepo

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

type MongoMessageRepo struct {
	coll *mongo.Collection
}

func NewMongoMessageRepo() MessageRepository {
	repo := &MongoMessageRepo{coll: database.DB().Collection("messages")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("messages: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoMessageRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "recipientId", Value: 1}, {Key: "read", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	res, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

func (r *MongoMessageRepo) ListByBooking(ctx context.Context, bookingID primitive.ObjectID, limit int64) ([]models.Message, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *MongoMessageRepo) MarkRead(ctx context.Context, bookingID primitive.ObjectID, recipientID string) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"bookingId": bookingID, "recipientId": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return res.ModifiedCount, nil
}
