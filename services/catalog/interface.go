package catalog

import (
	"context"
	"time"

	categoryRepo "hausly/database/repository/category"
	serviceRepo "hausly/database/repository/service"
	"hausly/models"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// CatalogService defines browsing and provider management of services.
type CatalogService interface {
	// ListServices pages through services. Inactive services are visible only
	// when the caller filters on their own provider id.
	ListServices(ctx context.Context, filter models.ServiceFilter, callerUID string) (*models.ServiceList, error)
	// Categories returns the sorted distinct categories of active services.
	Categories(ctx context.Context) ([]string, error)
	CategoryInfo(ctx context.Context) ([]models.CategoryInfo, error)
	EnsureDefaultCategories(ctx context.Context) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	CreateService(ctx context.Context, sess *models.Session, req models.CreateServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, sess *models.Session, id string, req models.UpdateServiceRequest) (*models.Service, error)
	SetActive(ctx context.Context, sess *models.Session, id string, active bool) (*models.Service, error)
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Repo          serviceRepo.ServiceRepository
	CategoryStore categoryRepo.CategoryRepository
	Cache         CategoryCache
	Logger        *zap.Logger
	now           func() time.Time
}

func NewDefaultCatalogService(
	repo serviceRepo.ServiceRepository,
	categories categoryRepo.CategoryRepository,
	cache CategoryCache,
	logger *zap.Logger,
) *DefaultCatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{
		Repo:          repo,
		CategoryStore: categories,
		Cache:         cache,
		Logger:        logger,
		now:           time.Now,
	}
}
