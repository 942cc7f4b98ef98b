package provider

import (
	"context"
	"testing"

	"hausly/database"
	"hausly/models"
	"hausly/utils"
)

type memProfiles map[string]*models.ProviderProfile

func (m memProfiles) GetByUID(_ context.Context, uid string) (*models.ProviderProfile, error) {
	if p, ok := m[uid]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

func (m memProfiles) Upsert(_ context.Context, p *models.ProviderProfile) (*models.ProviderProfile, error) {
	cp := *p
	m[p.UID] = &cp
	return &cp, nil
}

func sessionAs(uid string, role models.Role) *models.Session {
	return &models.Session{Identity: models.Identity{UID: uid}, User: &models.User{UID: uid, Role: role}}
}

func TestUpsertProfile_WritesCallersOwnProfile(t *testing.T) {
	repo := memProfiles{}
	svc := &DefaultProviderService{Repo: repo}

	p, err := svc.UpsertProfile(context.Background(), sessionAs("p1", models.RoleProvider),
		models.UpsertProviderProfileRequest{BusinessName: "Bright Sparks", YearsExperience: 7})
	if err != nil {
		t.Fatal(err)
	}
	if p.UID != "p1" || repo["p1"].BusinessName != "Bright Sparks" {
		t.Fatalf("unexpected profile %+v", p)
	}

	got, err := svc.GetProfile(context.Background(), "p1")
	if err != nil || got.YearsExperience != 7 {
		t.Fatalf("unexpected lookup %+v (%v)", got, err)
	}
}

func TestUpsertProfile_ProvidersOnly(t *testing.T) {
	repo := memProfiles{}
	svc := &DefaultProviderService{Repo: repo}
	for _, role := range []models.Role{models.RoleCustomer, models.RoleAdmin} {
		_, err := svc.UpsertProfile(context.Background(), sessionAs("u1", role),
			models.UpsertProviderProfileRequest{BusinessName: "Nope"})
		if !utils.IsCode(err, utils.CodeInsufficientPermission) {
			t.Fatalf("%s: expected INSUFFICIENT_PERMISSIONS, got %v", role, err)
		}
	}
	if len(repo) != 0 {
		t.Fatal("profile written for non-provider")
	}
}

func TestGetProfile_Missing(t *testing.T) {
	svc := &DefaultProviderService{Repo: memProfiles{}}
	if _, err := svc.GetProfile(context.Background(), "ghost"); !utils.IsCode(err, utils.CodeUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}
