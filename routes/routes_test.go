package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hausly/database"
	"hausly/handlers"
	"hausly/models"
	"hausly/services/admin"
	"hausly/services/booking"
	"hausly/services/catalog"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(models.IsValidCategory); err != nil {
		panic(err)
	}
}

type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (models.Identity, time.Time, error) {
	if token == "" || token == "bad" {
		return models.Identity{}, time.Time{}, errors.New("bad token")
	}
	return models.Identity{UID: token}, time.Now().Add(time.Hour), nil
}

type noCache struct{}

func (noCache) Get(context.Context, string) (models.Identity, bool)             { return models.Identity{}, false }
func (noCache) Set(context.Context, string, models.Identity, time.Duration) {}

type users map[string]*models.User

func (u users) GetByUID(_ context.Context, uid string) (*models.User, error) {
	if user, ok := u[uid]; ok {
		return user, nil
	}
	return nil, database.ErrNotFound
}

func (u users) Create(context.Context, *models.User) error { return nil }

func (u users) UpdateSetDocument(_ context.Context, uid string, doc bson.M) (*models.User, error) {
	user, ok := u[uid]
	if !ok {
		return nil, database.ErrNotFound
	}
	if r, ok := doc["role"].(models.Role); ok {
		user.Role = r
	}
	return user, nil
}

func (u users) GetAll(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(u))
	for _, user := range u {
		out = append(out, *user)
	}
	return out, nil
}

type services struct {
	byID map[primitive.ObjectID]*models.Service
}

func (s *services) Create(context.Context, *models.Service) error { return nil }

func (s *services) GetByID(_ context.Context, id primitive.ObjectID) (*models.Service, error) {
	if svc, ok := s.byID[id]; ok {
		return svc, nil
	}
	return nil, database.ErrNotFound
}

func (s *services) UpdateSetDocument(context.Context, primitive.ObjectID, bson.M) (*models.Service, error) {
	return nil, database.ErrNotFound
}

func (s *services) List(context.Context, models.ServiceFilter) ([]models.Service, int64, error) {
	return nil, 0, nil
}

func (s *services) DistinctCategories(context.Context) ([]string, error) {
	return []string{"plumbing", "cleaning", "plumbing", "electrical"}, nil
}

func (s *services) ApplyReview(context.Context, primitive.ObjectID, int) error      { return nil }
func (s *services) SetRatings(context.Context, []models.RatingAggregate) error { return nil }

type bookings struct {
	created []*models.Booking
	byID    map[primitive.ObjectID]*models.Booking
}

func (b *bookings) CreateForActiveService(_ context.Context, bk *models.Booking) error {
	bk.ID = primitive.NewObjectID()
	b.created = append(b.created, bk)
	b.byID[bk.ID] = bk
	return nil
}

func (b *bookings) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if bk, ok := b.byID[id]; ok {
		cp := *bk
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (b *bookings) List(context.Context, models.BookingQuery) ([]models.Booking, error) {
	return nil, nil
}

func (b *bookings) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.Booking, error) {
	bk, ok := b.byID[id]
	if !ok || bk.Status != from {
		return nil, database.ErrNotFound
	}
	bk.Status = to
	cp := *bk
	return &cp, nil
}

func (b *bookings) CountByProviderStatus(context.Context, string, models.BookingStatus) (int64, error) {
	return 0, nil
}

type fixture struct {
	router   *gin.Engine
	bookings *bookings
	service  *models.Service
	users    users
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := &models.Service{
		ID:           primitive.NewObjectID(),
		Title:        "Deep clean",
		Price:        300,
		Category:     "cleaning",
		ProviderID:   "prov1",
		ProviderName: "Spotless Co",
		IsActive:     true,
	}
	svcRepo := &services{byID: map[primitive.ObjectID]*models.Service{svc.ID: svc}}
	bookingRepo := &bookings{byID: map[primitive.ObjectID]*models.Booking{}}
	userRepo := users{
		"cust1": {UID: "cust1", Name: "Cara", Email: "cara@example.com", Role: models.RoleCustomer},
		"prov1": {UID: "prov1", Name: "Pat", Role: models.RoleProvider},
		"prov2": {UID: "prov2", Name: "Quinn", Role: models.RoleProvider},
		"root":  {UID: "root", Name: "Ops", Role: models.RoleAdmin},
	}

	bookingSvc := &booking.DefaultBookingService{Users: userRepo, Services: svcRepo, Repo: bookingRepo}
	catalogSvc := catalog.NewDefaultCatalogService(svcRepo, nil, nil, zap.NewNop())

	hb := &handlers.HandlerBundle{
		Verifier:   tokenVerifier{},
		TokenCache: noCache{},
		Users:      userRepo,
		RateLimit:  1000,
		User:       &handlers.UserHandler{},
		Admin:      handlers.NewAdminHandler(&admin.DefaultAdminService{Users: userRepo}),
		Catalog:    handlers.NewCatalogHandler(catalogSvc, zap.NewNop()),
		Booking:    handlers.NewBookingHandler(bookingSvc, zap.NewNop()),
		Review:     &handlers.ReviewHandler{},
		Message:    &handlers.MessageHandler{},
		Favorite:   &handlers.FavoriteHandler{},
		Provider:   &handlers.ProviderHandler{},
		Realtime:   &handlers.RealtimeHandler{},
		Health:     &handlers.HealthHandler{},
	}
	r := gin.New()
	RegisterRoutes(r, hb, "*")
	return &fixture{router: r, bookings: bookingRepo, service: svc, users: userRepo}
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func (f *fixture) bookingBody(extra map[string]any) map[string]any {
	body := map[string]any{
		"serviceId": f.service.ID.Hex(),
		"date":      "2025-01-10",
		"time":      "10:00",
		"address":   "X",
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestCreateBooking_SnapshotsServiceFields(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/bookings", "cust1", f.bookingBody(map[string]any{"price": 1, "providerId": "evil"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Booking      models.Booking `json:"booking"`
		ServiceTitle string         `json:"serviceTitle"`
		ProviderName string         `json:"providerName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	b := resp.Booking
	if b.Status != models.StatusPending || b.Price != 300 || b.ProviderID != "prov1" || b.UserID != "cust1" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if resp.ServiceTitle != "Deep clean" || resp.ProviderName != "Spotless Co" {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		body   func(f *fixture) map[string]any
		status int
		code   string
	}{
		{"no token", "", func(f *fixture) map[string]any { return f.bookingBody(nil) }, http.StatusUnauthorized, utils.CodeUnauthorized},
		{"provider", "prov2", func(f *fixture) map[string]any { return f.bookingBody(nil) }, http.StatusForbidden, utils.CodeProviderBooking},
		{"own service", "prov1", func(f *fixture) map[string]any { return f.bookingBody(nil) }, http.StatusBadRequest, utils.CodeSelfBooking},
		{"missing address", "cust1", func(f *fixture) map[string]any {
			b := f.bookingBody(nil)
			delete(b, "address")
			return b
		}, http.StatusBadRequest, utils.CodeValidation},
		{"unknown service", "cust1", func(f *fixture) map[string]any {
			return f.bookingBody(map[string]any{"serviceId": primitive.NewObjectID().Hex()})
		}, http.StatusNotFound, utils.CodeServiceNotFound},
		{"no profile", "ghost", func(f *fixture) map[string]any { return f.bookingBody(nil) }, http.StatusNotFound, utils.CodeUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(http.MethodPost, "/api/bookings", tc.token, tc.body(f))
			if w.Code != tc.status || errCode(t, w) != tc.code {
				t.Fatalf("expected %d %s, got %d %s", tc.status, tc.code, w.Code, w.Body.String())
			}
			if len(f.bookings.created) != 0 {
				t.Fatal("no booking should be stored")
			}
		})
	}
}

func TestUpdateStatus_ConfirmThenComplete(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/bookings", "cust1", f.bookingBody(nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	id := f.bookings.created[0].ID.Hex()

	for _, status := range []string{"confirmed", "completed"} {
		w := f.do(http.MethodPut, "/api/bookings/"+id+"/status", "prov1", map[string]string{"status": status})
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d %s", status, w.Code, w.Body.String())
		}
	}
	if got := f.bookings.created[0].Status; got != models.StatusCompleted {
		t.Fatalf("final status %q", got)
	}

	w = f.do(http.MethodPut, "/api/bookings/"+id+"/status", "prov1", map[string]string{"status": "pending"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != utils.CodeIllegalTransition {
		t.Fatalf("expected ILLEGAL_TRANSITION, got %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateStatus_UnknownStatusLeavesBookingAlone(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/bookings", "cust1", f.bookingBody(nil))
	id := f.bookings.created[0].ID.Hex()

	w := f.do(http.MethodPut, "/api/bookings/"+id+"/status", "prov1", map[string]string{"status": "archived"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != utils.CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %d %s", w.Code, w.Body.String())
	}
	if f.bookings.created[0].Status != models.StatusPending {
		t.Fatal("status must be unchanged")
	}
}

func TestDeleteBooking_Cancels(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/bookings", "cust1", f.bookingBody(nil))
	id := f.bookings.created[0].ID.Hex()

	w := f.do(http.MethodDelete, "/api/bookings/"+id, "cust1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}
	if f.bookings.created[0].Status != models.StatusCancelled {
		t.Fatalf("status %q", f.bookings.created[0].Status)
	}
}

func TestServices_CategoriesRouteIsNotShadowed(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/services/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	var got []string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := []string{"cleaning", "electrical", "plumbing"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}

func TestServices_GetByID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/services/not-an-id", "", nil)
	if w.Code != http.StatusBadRequest || errCode(t, w) != utils.CodeInvalidID {
		t.Fatalf("expected INVALID_ID, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/api/services/"+primitive.NewObjectID().Hex(), "", nil)
	if w.Code != http.StatusNotFound || errCode(t, w) != utils.CodeServiceNotFound {
		t.Fatalf("expected SERVICE_NOT_FOUND, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/api/services/"+f.service.ID.Hex(), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProviderRoutes_RequireProviderRole(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/bookings/provider/pending-count", "cust1", nil)
	if w.Code != http.StatusForbidden || errCode(t, w) != utils.CodeInsufficientPermission {
		t.Fatalf("expected 403, got %d %s", w.Code, w.Body.String())
	}
	w = f.do(http.MethodGet, "/api/bookings/provider/pending-count", "prov1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutes_RoleChangeIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"role": "provider"}

	w := f.do(http.MethodPut, "/api/admin/users/cust1/role", "prov1", body)
	if w.Code != http.StatusForbidden || errCode(t, w) != utils.CodeInsufficientPermission {
		t.Fatalf("expected 403, got %d %s", w.Code, w.Body.String())
	}
	if f.users["cust1"].Role != models.RoleCustomer {
		t.Fatal("role changed by non-admin")
	}

	w = f.do(http.MethodPut, "/api/admin/users/cust1/role", "root", map[string]any{"role": "superuser"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPut, "/api/admin/users/cust1/role", "root", body)
	if w.Code != http.StatusOK || f.users["cust1"].Role != models.RoleProvider {
		t.Fatalf("expected promotion, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPut, "/api/admin/users/ghost/role", "root", body)
	if w.Code != http.StatusNotFound || errCode(t, w) != utils.CodeUserNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}
}
