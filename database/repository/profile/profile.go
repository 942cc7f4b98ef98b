package profileRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/database"
	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ProfileRepository stores provider business profiles keyed by user UID.
type ProfileRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.ProviderProfile, error)
	Upsert(ctx context.Context, profile *models.ProviderProfile) (*models.ProviderProfile, error)
}

type MongoProfileRepo struct {
	coll *mongo.Collection
}

func NewMongoProfileRepo() ProfileRepository {
	repo := &MongoProfileRepo{coll: database.DB().Collection("provider_profiles")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		zap.L().Warn("provider_profiles: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoProfileRepo) GetByUID(ctx context.Context, uid string) (*models.ProviderProfile, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	var profile models.ProviderProfile
	if err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&profile); err != nil {
		if err = database.Translate(err); errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch provider profile %s: %w", uid, err)
	}
	return &profile, nil
}

func (r *MongoProfileRepo) Upsert(ctx context.Context, p *models.ProviderProfile) (*models.ProviderProfile, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"businessName":    p.BusinessName,
			"bio":             p.Bio,
			"serviceArea":     p.ServiceArea,
			"yearsExperience": p.YearsExperience,
			"phone":           p.Phone,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{"uid": p.UID, "verified": false, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.ProviderProfile
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"uid": p.UID}, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to upsert provider profile %s: %w", p.UID, err)
	}
	return &out, nil
}
