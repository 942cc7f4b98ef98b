package catalog

import (
	"context"
	"testing"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubServiceRepo struct {
	services   map[primitive.ObjectID]*models.Service
	categories []string
	distinct   int
	lastFilter models.ServiceFilter
}

func (s *stubServiceRepo) Create(_ context.Context, svc *models.Service) error {
	svc.ID = primitive.NewObjectID()
	s.services[svc.ID] = svc
	return nil
}

func (s *stubServiceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Service, error) {
	if svc, ok := s.services[id]; ok {
		cp := *svc
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (s *stubServiceRepo) UpdateSetDocument(_ context.Context, id primitive.ObjectID, doc bson.M) (*models.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if v, ok := doc["isActive"].(bool); ok {
		svc.IsActive = v
	}
	cp := *svc
	return &cp, nil
}

func (s *stubServiceRepo) List(_ context.Context, f models.ServiceFilter) ([]models.Service, int64, error) {
	s.lastFilter = f
	return []models.Service{{Title: "a"}, {Title: "b"}}, 30, nil
}

func (s *stubServiceRepo) DistinctCategories(context.Context) ([]string, error) {
	s.distinct++
	return s.categories, nil
}

func (s *stubServiceRepo) ApplyReview(context.Context, primitive.ObjectID, int) error { return nil }

func (s *stubServiceRepo) SetRatings(context.Context, []models.RatingAggregate) error { return nil }

type memCache struct {
	vals        []string
	ok          bool
	invalidated int
}

func (m *memCache) Get(context.Context) ([]string, bool) { return m.vals, m.ok }

func (m *memCache) Set(_ context.Context, v []string) error {
	m.vals, m.ok = v, true
	return nil
}

func (m *memCache) Invalidate(context.Context) error {
	m.vals, m.ok = nil, false
	m.invalidated++
	return nil
}

func newCatalog(repo *stubServiceRepo, cache CategoryCache) *DefaultCatalogService {
	return NewDefaultCatalogService(repo, nil, cache, nil)
}

func TestCategories_SortedDistinctAndCached(t *testing.T) {
	repo := &stubServiceRepo{categories: []string{"Plumbing", "Cleaning", "Plumbing", "Electrical"}}
	cache := &memCache{}
	svc := newCatalog(repo, cache)

	for i := 0; i < 2; i++ {
		got, err := svc.Categories(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Cleaning", "Electrical", "Plumbing"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}
	if repo.distinct != 1 {
		t.Fatalf("expected one store read, got %d", repo.distinct)
	}
}

func TestListServices_NormalizesPaging(t *testing.T) {
	repo := &stubServiceRepo{}
	svc := newCatalog(repo, nil)

	res, err := svc.ListServices(context.Background(), models.ServiceFilter{Page: 0, Limit: 500, Category: "all"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != MaxPageSize || repo.lastFilter.Category != "" {
		t.Fatalf("unexpected normalized filter: %+v", repo.lastFilter)
	}
	if repo.lastFilter.IncludeIdle {
		t.Fatalf("anonymous listing must not include inactive services")
	}
	if res.Pagination.Total != 30 || res.Pagination.Pages != 1 || res.Meta.Count != 2 {
		t.Fatalf("unexpected pagination/meta: %+v %+v", res.Pagination, res.Meta)
	}

	_, _ = svc.ListServices(context.Background(), models.ServiceFilter{ProviderID: "p1"}, "p1")
	if !repo.lastFilter.IncludeIdle || repo.lastFilter.Limit != DefaultPageSize {
		t.Fatalf("owner listing should include inactive services: %+v", repo.lastFilter)
	}
}

func TestGetService_InvalidAndMissing(t *testing.T) {
	svc := newCatalog(&stubServiceRepo{services: map[primitive.ObjectID]*models.Service{}}, nil)

	if _, err := svc.GetService(context.Background(), "xyz"); !utils.IsCode(err, utils.CodeInvalidID) {
		t.Fatalf("expected INVALID_ID, got %v", err)
	}
	if _, err := svc.GetService(context.Background(), primitive.NewObjectID().Hex()); !utils.IsCode(err, utils.CodeServiceNotFound) {
		t.Fatalf("expected SERVICE_NOT_FOUND, got %v", err)
	}
}

func TestSetActive_OwnerOnlyAndInvalidatesCache(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &stubServiceRepo{services: map[primitive.ObjectID]*models.Service{
		id: {ID: id, ProviderID: "p1", IsActive: true},
	}}
	cache := &memCache{}
	svc := newCatalog(repo, cache)

	other := &models.Session{Identity: models.Identity{UID: "p2"}, User: &models.User{UID: "p2", Role: models.RoleProvider}}
	if _, err := svc.SetActive(context.Background(), other, id.Hex(), false); !utils.IsCode(err, utils.CodeInsufficientPermission) {
		t.Fatalf("expected INSUFFICIENT_PERMISSIONS, got %v", err)
	}

	owner := &models.Session{Identity: models.Identity{UID: "p1"}, User: &models.User{UID: "p1", Role: models.RoleProvider}}
	got, err := svc.SetActive(context.Background(), owner, id.Hex(), false)
	if err != nil || got.IsActive {
		t.Fatalf("expected deactivated service, got %+v (%v)", got, err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}
}
