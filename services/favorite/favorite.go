package favorite

import (
	"context"
	"errors"

	"hausly/database"
	favoriteRepo "hausly/database/repository/favorite"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceLookup resolves a catalog service by id.
type ServiceLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
}

// FavoriteService manages a customer's saved services.
type FavoriteService interface {
	List(ctx context.Context, sess *models.Session) ([]models.Service, error)
	// Add is idempotent; saving a service twice keeps one favorite.
	Add(ctx context.Context, sess *models.Session, serviceID string) error
	Remove(ctx context.Context, sess *models.Session, serviceID string) error
}

type DefaultFavoriteService struct {
	Repo     favoriteRepo.FavoriteRepository
	Services ServiceLookup
}

func parseID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(utils.CodeInvalidID, "Invalid service ID format")
	}
	return oid, nil
}

func requireCustomer(sess *models.Session) error {
	if !sess.HasRole(models.RoleCustomer) {
		return utils.NewForbiddenError(utils.CodeInsufficientPermission, "Only customers keep favorites")
	}
	return nil
}

// List resolves each favorite to its service, skipping services that no longer exist.
func (s *DefaultFavoriteService) List(ctx context.Context, sess *models.Session) ([]models.Service, error) {
	if err := requireCustomer(sess); err != nil {
		return nil, err
	}
	favs, err := s.Repo.ListByUser(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Service, 0, len(favs))
	for _, f := range favs {
		svc, err := s.Services.GetByID(ctx, f.ServiceID)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *svc)
	}
	return out, nil
}

func (s *DefaultFavoriteService) Add(ctx context.Context, sess *models.Session, serviceID string) error {
	if err := requireCustomer(sess); err != nil {
		return err
	}
	oid, err := parseID(serviceID)
	if err != nil {
		return err
	}
	if _, err := s.Services.GetByID(ctx, oid); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.NewNotFoundError(utils.CodeServiceNotFound, "Service not found")
		}
		return err
	}
	return s.Repo.Add(ctx, sess.UID, oid)
}

func (s *DefaultFavoriteService) Remove(ctx context.Context, sess *models.Session, serviceID string) error {
	if err := requireCustomer(sess); err != nil {
		return err
	}
	oid, err := parseID(serviceID)
	if err != nil {
		return err
	}
	return s.Repo.Remove(ctx, sess.UID, oid)
}
