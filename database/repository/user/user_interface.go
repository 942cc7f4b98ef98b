package userRepo

import (
	"context"

	"hausly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByUID retrieves a user by external auth UID.
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateSetDocument applies a $set and returns the updated document.
	UpdateSetDocument(ctx context.Context, uid string, updateDoc bson.M) (*models.User, error)
	// GetAll retrieves all users, newest first.
	GetAll(ctx context.Context) ([]models.User, error)
}
