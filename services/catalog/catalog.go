package catalog

import (
	"context"
	"errors"
	"strings"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func normalizeFilter(f models.ServiceFilter, callerUID string) models.ServiceFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	f.Search = strings.TrimSpace(f.Search)
	if strings.EqualFold(f.Category, "all") {
		f.Category = ""
	}
	f.IncludeIdle = callerUID != "" && f.ProviderID == callerUID
	return f
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, filter models.ServiceFilter, callerUID string) (*models.ServiceList, error) {
	start := s.now()
	f := normalizeFilter(filter, callerUID)

	services, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &models.ServiceList{
		Services:   services,
		Pagination: models.NewPagination(f.Page, f.Limit, total),
		Meta: models.ListMeta{
			QueryTime: s.now().Sub(start).String(),
			Count:     len(services),
		},
	}, nil
}

func (s *DefaultCatalogService) Categories(ctx context.Context) ([]string, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx); ok {
			return cached, nil
		}
	}

	raw, err := s.Repo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := models.SortedUniqueCategories(raw)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, categories); err != nil {
			s.Logger.Warn("Categories: cache write failed", zap.Error(err))
		}
	}
	return categories, nil
}

func (s *DefaultCatalogService) CategoryInfo(ctx context.Context) ([]models.CategoryInfo, error) {
	return s.CategoryStore.List(ctx)
}

func (s *DefaultCatalogService) EnsureDefaultCategories(ctx context.Context) error {
	return s.CategoryStore.EnsureDefaults(ctx, models.DefaultCategoryInfo())
}

func parseServiceID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(utils.CodeInvalidID, "Invalid service ID format")
	}
	return oid, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	oid, err := parseServiceID(id)
	if err != nil {
		return nil, err
	}
	svc, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeServiceNotFound, "Service not found")
		}
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, sess *models.Session, req models.CreateServiceRequest) (*models.Service, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, utils.NewValidationError(utils.CodeValidation, "Unknown category")
	}

	svc := &models.Service{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    models.Category(req.Category),
		ProviderID:  sess.UID,
		IsActive:    true,
	}
	if sess.User != nil {
		svc.ProviderName = sess.User.Name
	}
	if err := s.Repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return svc, nil
}

// owned loads a service the caller may modify.
func (s *DefaultCatalogService) owned(ctx context.Context, sess *models.Session, id string) (*models.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != sess.UID && !sess.IsAdmin() {
		return nil, utils.NewForbiddenError(utils.CodeInsufficientPermission, "You do not own this service")
	}
	return svc, nil
}

func (s *DefaultCatalogService) UpdateService(ctx context.Context, sess *models.Session, id string, req models.UpdateServiceRequest) (*models.Service, error) {
	svc, err := s.owned(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, utils.NewValidationError(utils.CodeValidation, "Unknown category")
		}
		updates["category"] = *req.Category
	}
	if len(updates) == 0 {
		return svc, nil
	}

	updated, err := s.Repo.UpdateSetDocument(ctx, svc.ID, updates)
	if err != nil {
		return nil, err
	}
	if _, ok := updates["category"]; ok {
		s.invalidate(ctx)
	}
	return updated, nil
}

func (s *DefaultCatalogService) SetActive(ctx context.Context, sess *models.Session, id string, active bool) (*models.Service, error) {
	svc, err := s.owned(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if svc.IsActive == active {
		return svc, nil
	}
	updated, err := s.Repo.UpdateSetDocument(ctx, svc.ID, bson.M{"isActive": active})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *DefaultCatalogService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("catalog: category cache invalidation failed", zap.Error(err))
	}
}
