package user

import (
	"context"

	userRepo "hausly/database/repository/user"
	"hausly/models"
)

// UserService defines business logic for user profile operations.
type UserService interface {
	// CompleteProfile creates the persisted record for a freshly signed-up identity.
	CompleteProfile(ctx context.Context, id models.Identity, req models.CompleteProfileRequest) (*models.User, error)
	// GetByUID retrieves a user by external auth UID.
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	// UpdateProfile edits the caller's own profile. Role is immutable here.
	UpdateProfile(ctx context.Context, sess *models.Session, req models.UpdateProfileRequest) (*models.User, error)
	// SetFCMToken stores the device push token used for notifications.
	SetFCMToken(ctx context.Context, uid, token string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewDefaultUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}
