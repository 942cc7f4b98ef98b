package provider

import (
	"context"
	"errors"

	"hausly/database"
	profileRepo "hausly/database/repository/profile"
	"hausly/models"
	"hausly/utils"
)

// ProviderService manages public provider business profiles.
type ProviderService interface {
	GetProfile(ctx context.Context, uid string) (*models.ProviderProfile, error)
	UpsertProfile(ctx context.Context, sess *models.Session, req models.UpsertProviderProfileRequest) (*models.ProviderProfile, error)
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo profileRepo.ProfileRepository
}

func (s *DefaultProviderService) GetProfile(ctx context.Context, uid string) (*models.ProviderProfile, error) {
	p, err := s.Repo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeUserNotFound, "Provider profile not found")
		}
		return nil, err
	}
	return p, nil
}

// UpsertProfile writes the caller's own profile. Only providers have one.
func (s *DefaultProviderService) UpsertProfile(ctx context.Context, sess *models.Session, req models.UpsertProviderProfileRequest) (*models.ProviderProfile, error) {
	if !sess.HasRole(models.RoleProvider) {
		return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "Only providers have a business profile")
	}
	return s.Repo.Upsert(ctx, &models.ProviderProfile{
		UID:             sess.UID,
		BusinessName:    req.BusinessName,
		Bio:             req.Bio,
		ServiceArea:     req.ServiceArea,
		YearsExperience: req.YearsExperience,
		Phone:           req.Phone,
	})
}
