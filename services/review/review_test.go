package review

import (
	"context"
	"testing"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingMap map[primitive.ObjectID]*models.Booking

func (m bookingMap) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if b, ok := m[id]; ok {
		return b, nil
	}
	return nil, database.ErrNotFound
}

type memReviews struct {
	byBooking map[primitive.ObjectID]*models.Review
}

func (m *memReviews) Create(_ context.Context, r *models.Review) error {
	if _, ok := m.byBooking[r.BookingID]; ok {
		return database.ErrDuplicate
	}
	r.ID = primitive.NewObjectID()
	m.byBooking[r.BookingID] = r
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	for _, r := range m.byBooking {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memReviews) ListByService(context.Context, primitive.ObjectID) ([]models.Review, error) {
	return nil, nil
}

func (m *memReviews) ListByProvider(context.Context, string) ([]models.Review, error) {
	return nil, nil
}

func (m *memReviews) SetResponse(_ context.Context, id primitive.ObjectID, resp models.ReviewResponse) (*models.Review, error) {
	r, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	r.Response = &resp
	return r, nil
}

func (m *memReviews) AggregateRatings(context.Context) ([]models.RatingAggregate, error) {
	sums := map[primitive.ObjectID][2]int{}
	for _, r := range m.byBooking {
		v := sums[r.ServiceID]
		sums[r.ServiceID] = [2]int{v[0] + r.Rating, v[1] + 1}
	}
	var out []models.RatingAggregate
	for id, v := range sums {
		out = append(out, models.RatingAggregate{ServiceID: id, Average: float64(v[0]) / float64(v[1]), Count: v[1]})
	}
	return out, nil
}

type ratingLog struct {
	applied []int
	set     []models.RatingAggregate
}

func (r *ratingLog) ApplyReview(_ context.Context, _ primitive.ObjectID, rating int) error {
	r.applied = append(r.applied, rating)
	return nil
}

func (r *ratingLog) SetRatings(_ context.Context, aggs []models.RatingAggregate) error {
	r.set = aggs
	return nil
}

func customer(uid string) *models.Session {
	return &models.Session{Identity: models.Identity{UID: uid}, User: &models.User{UID: uid, Name: "Cara", Role: models.RoleCustomer}}
}

func TestCreateReview_Rules(t *testing.T) {
	serviceID := primitive.NewObjectID()
	done := &models.Booking{ID: primitive.NewObjectID(), ServiceID: serviceID, UserID: "c1", ProviderID: "p1", Status: models.StatusCompleted}
	open := &models.Booking{ID: primitive.NewObjectID(), ServiceID: serviceID, UserID: "c1", ProviderID: "p1", Status: models.StatusConfirmed}
	ratings := &ratingLog{}
	svc := &DefaultReviewService{
		Repo:     &memReviews{byBooking: map[primitive.ObjectID]*models.Review{}},
		Bookings: bookingMap{done.ID: done, open.ID: open},
		Ratings:  ratings,
	}
	ctx := context.Background()

	_, err := svc.Create(ctx, customer("c1"), models.CreateReviewRequest{BookingID: open.ID.Hex(), Rating: 4})
	if !utils.IsCode(err, utils.CodeBookingNotCompleted) {
		t.Fatalf("expected BOOKING_NOT_COMPLETED, got %v", err)
	}

	_, err = svc.Create(ctx, customer("c2"), models.CreateReviewRequest{BookingID: done.ID.Hex(), Rating: 4})
	if !utils.IsCode(err, utils.CodeNotParticipant) {
		t.Fatalf("expected NOT_BOOKING_PARTICIPANT, got %v", err)
	}

	r, err := svc.Create(ctx, customer("c1"), models.CreateReviewRequest{BookingID: done.ID.Hex(), Rating: 5, Comment: " great "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Comment != "great" || r.ProviderID != "p1" || r.CustomerName != "Cara" {
		t.Fatalf("unexpected review: %+v", r)
	}
	if len(ratings.applied) != 1 || ratings.applied[0] != 5 {
		t.Fatalf("expected rating 5 applied once, got %v", ratings.applied)
	}

	_, err = svc.Create(ctx, customer("c1"), models.CreateReviewRequest{BookingID: done.ID.Hex(), Rating: 3})
	if !utils.IsCode(err, utils.CodeReviewExists) {
		t.Fatalf("expected REVIEW_EXISTS, got %v", err)
	}
}

func TestRespond_ProviderOnly(t *testing.T) {
	b := &models.Booking{ID: primitive.NewObjectID(), ServiceID: primitive.NewObjectID(), UserID: "c1", ProviderID: "p1", Status: models.StatusCompleted}
	svc := &DefaultReviewService{
		Repo:     &memReviews{byBooking: map[primitive.ObjectID]*models.Review{}},
		Bookings: bookingMap{b.ID: b},
		Ratings:  &ratingLog{},
	}
	ctx := context.Background()
	r, err := svc.Create(ctx, customer("c1"), models.CreateReviewRequest{BookingID: b.ID.Hex(), Rating: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Respond(ctx, customer("c1"), r.ID.Hex(), "hi"); !utils.IsCode(err, utils.CodeInsufficientPermission) {
		t.Fatalf("expected INSUFFICIENT_PERMISSIONS, got %v", err)
	}
	prov := &models.Session{Identity: models.Identity{UID: "p1"}}
	got, err := svc.Respond(ctx, prov, r.ID.Hex(), "Sorry to hear that")
	if err != nil || got.Response == nil || got.Response.Comment != "Sorry to hear that" {
		t.Fatalf("expected response stored, got %+v (%v)", got, err)
	}
}

func TestReconcile_WritesAggregates(t *testing.T) {
	serviceID := primitive.NewObjectID()
	repo := &memReviews{byBooking: map[primitive.ObjectID]*models.Review{
		primitive.NewObjectID(): {ServiceID: serviceID, Rating: 5},
		primitive.NewObjectID(): {ServiceID: serviceID, Rating: 3},
	}}
	ratings := &ratingLog{}
	svc := &DefaultReviewService{Repo: repo, Ratings: ratings}

	n, err := svc.Reconcile(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected 1 aggregate, got %d (%v)", n, err)
	}
	if ratings.set[0].Average != 4 || ratings.set[0].Count != 2 {
		t.Fatalf("unexpected aggregate: %+v", ratings.set[0])
	}
}
