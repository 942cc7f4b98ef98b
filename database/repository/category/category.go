package categoryRepo

import (
	"context"
	"fmt"
	"time"

	"hausly/database"
	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository holds display metadata for the fixed category set.
type CategoryRepository interface {
	// EnsureDefaults inserts any category missing by name; existing documents are left alone.
	EnsureDefaults(ctx context.Context, defaults []models.CategoryInfo) error
	List(ctx context.Context) ([]models.CategoryInfo, error)
}

type MongoCategoryRepo struct {
	coll *mongo.Collection
}

func NewMongoCategoryRepo() CategoryRepository {
	return &MongoCategoryRepo{coll: database.DB().Collection("categories")}
}

func (r *MongoCategoryRepo) EnsureDefaults(ctx context.Context, defaults []models.CategoryInfo) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(defaults))
	for _, c := range defaults {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": c.Name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"name":        c.Name,
				"description": c.Description,
				"icon":        c.Icon,
				"sortOrder":   c.SortOrder,
			}}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return nil
	}
	if _, err := r.coll.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

func (r *MongoCategoryRepo) List(ctx context.Context) ([]models.CategoryInfo, error) {
	ctx, cancel := database.WithTimeout(ctx, database.DefaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.CategoryInfo{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return out, nil
}
