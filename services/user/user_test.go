package user

import (
	"context"
	"sync"
	"testing"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type memUsers struct {
	mu    sync.Mutex
	byUID map[string]*models.User
}

func (m *memUsers) GetByUID(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byUID[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUID[u.UID]; ok {
		return database.ErrDuplicate
	}
	cp := *u
	m.byUID[u.UID] = &cp
	return nil
}

func (m *memUsers) UpdateSetDocument(_ context.Context, uid string, doc bson.M) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byUID[uid]
	if !ok {
		return nil, database.ErrNotFound
	}
	if v, ok := doc["name"].(string); ok {
		u.Name = v
	}
	if v, ok := doc["phone"].(string); ok {
		u.Phone = v
	}
	if v, ok := doc["fcmToken"].(string); ok {
		u.FCMToken = v
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetAll(context.Context) ([]models.User, error) {
	return nil, nil
}

func newService() (*DefaultUserService, *memUsers) {
	repo := &memUsers{byUID: map[string]*models.User{}}
	return NewDefaultUserService(repo), repo
}

func TestCompleteProfile_CreatesOnce(t *testing.T) {
	svc, _ := newService()
	id := models.Identity{UID: "u1", Email: "Sam@Example.com", EmailVerified: true}
	req := models.CompleteProfileRequest{Name: " Sam ", Role: models.RoleProvider}

	u, err := svc.CompleteProfile(context.Background(), id, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Sam" || u.Email != "sam@example.com" || u.Role != models.RoleProvider || !u.Verified {
		t.Fatalf("unexpected user: %+v", u)
	}

	_, err = svc.CompleteProfile(context.Background(), id, req)
	if !utils.IsCode(err, utils.CodeProfileExists) {
		t.Fatalf("expected PROFILE_EXISTS, got %v", err)
	}
}

func TestCompleteProfile_RejectsAdmin(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CompleteProfile(context.Background(), models.Identity{UID: "u2"}, models.CompleteProfileRequest{Name: "Eve", Role: models.RoleAdmin})
	if !utils.IsCode(err, utils.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateProfile_RoleIsImmutable(t *testing.T) {
	svc, repo := newService()
	repo.byUID["u3"] = &models.User{UID: "u3", Name: "Kim", Role: models.RoleCustomer}
	sess := &models.Session{Identity: models.Identity{UID: "u3"}, User: repo.byUID["u3"]}

	provider := models.RoleProvider
	_, err := svc.UpdateProfile(context.Background(), sess, models.UpdateProfileRequest{Role: &provider})
	if !utils.IsCode(err, utils.CodeRoleImmutable) {
		t.Fatalf("expected ROLE_IMMUTABLE, got %v", err)
	}

	same := models.RoleCustomer
	name := "Kimberly"
	u, err := svc.UpdateProfile(context.Background(), sess, models.UpdateProfileRequest{Role: &same, Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Kimberly" || u.Role != models.RoleCustomer {
		t.Fatalf("unexpected user after update: %+v", u)
	}
}

func TestSetFCMToken_UnknownUser(t *testing.T) {
	svc, _ := newService()
	err := svc.SetFCMToken(context.Background(), "missing", "tok")
	if !utils.IsCode(err, utils.CodeUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}
