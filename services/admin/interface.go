package admin

import (
	"context"
	"errors"

	"hausly/database"
	userRepo "hausly/database/repository/user"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AdminService covers operator-only user management.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, actor *models.Session, uid string, role models.Role) (*models.User, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

func (s *DefaultAdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.GetAll(ctx)
}

// SetRole is the only path that changes a role after profile completion.
func (s *DefaultAdminService) SetRole(ctx context.Context, actor *models.Session, uid string, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "Only admins can change roles")
	}
	if !role.IsValid() {
		return nil, utils.NewValidationError(utils.CodeValidation, "Unknown role")
	}
	u, err := s.Users.UpdateSetDocument(ctx, uid, bson.M{"role": role})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeUserNotFound, "User not found")
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("User role changed",
			zap.String("uid", uid),
			zap.String("role", string(role)),
			zap.String("by", actor.UID),
		)
	}
	return u, nil
}
