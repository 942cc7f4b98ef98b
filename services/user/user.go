package user

import (
	"context"
	"errors"
	"strings"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultUserService) CompleteProfile(ctx context.Context, id models.Identity, req models.CompleteProfileRequest) (*models.User, error) {
	// Admin is granted out of band, never self-assigned.
	if req.Role != models.RoleCustomer && req.Role != models.RoleProvider {
		return nil, utils.NewValidationError(utils.CodeValidation, "Role must be customer or provider")
	}

	if _, err := s.Repo.GetByUID(ctx, id.UID); err == nil {
		return nil, utils.NewConflictError(utils.CodeProfileExists, "Profile already completed")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	u := &models.User{
		UID:      id.UID,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(id.Email),
		Role:     req.Role,
		Verified: id.EmailVerified,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.NewConflictError(utils.CodeProfileExists, "Profile already completed")
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultUserService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Repo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeUserNotFound, "User profile not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultUserService) UpdateProfile(ctx context.Context, sess *models.Session, req models.UpdateProfileRequest) (*models.User, error) {
	if req.Role != nil && (sess.User == nil || *req.Role != sess.User.Role) {
		return nil, utils.NewForbiddenError(utils.CodeRoleImmutable, "Role cannot be changed from the profile")
	}

	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.AvatarURL != nil {
		updates["avatarUrl"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return s.GetByUID(ctx, sess.UID)
	}

	u, err := s.Repo.UpdateSetDocument(ctx, sess.UID, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeUserNotFound, "User profile not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, uid, token string) error {
	_, err := s.Repo.UpdateSetDocument(ctx, uid, bson.M{"fcmToken": token})
	if errors.Is(err, database.ErrNotFound) {
		return utils.NewNotFoundError(utils.CodeUserNotFound, "User profile not found")
	}
	return err
}
