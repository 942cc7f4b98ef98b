package cron

import (
	"context"
	"errors"
	"testing"

	"hausly/database"
	"hausly/models"
	"hausly/services/notification"
	"hausly/services/tasks"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	sent []models.NotificationPayload
	err  error
}

func (r *recordingNotifier) SendPush(_ context.Context, p models.NotificationPayload) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, p)
	return nil
}

type bookingMap map[primitive.ObjectID]*models.Booking

func (m bookingMap) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if b, ok := m[id]; ok {
		return b, nil
	}
	return nil, database.ErrNotFound
}

func reminderTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewBookingNotifyTask(models.NotificationPayload{
		Type:      models.NotifyBookingReminder,
		TargetUID: "cust",
		BookingID: bookingID,
		Title:     "Upcoming booking",
	})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func TestHandleReminder_OnlyForConfirmedBookings(t *testing.T) {
	confirmed := &models.Booking{ID: primitive.NewObjectID(), Status: models.StatusConfirmed}
	cancelled := &models.Booking{ID: primitive.NewObjectID(), Status: models.StatusCancelled}
	n := &recordingNotifier{}
	w := &Worker{Notifier: n, Bookings: bookingMap{confirmed.ID: confirmed, cancelled.ID: cancelled}, Logger: zap.NewNop()}

	if err := w.HandleReminder(context.Background(), reminderTask(t, confirmed.ID.Hex())); err != nil {
		t.Fatalf("confirmed: %v", err)
	}
	if err := w.HandleReminder(context.Background(), reminderTask(t, cancelled.ID.Hex())); err != nil {
		t.Fatalf("cancelled: %v", err)
	}
	if err := w.HandleReminder(context.Background(), reminderTask(t, primitive.NewObjectID().Hex())); err != nil {
		t.Fatalf("deleted booking: %v", err)
	}
	if len(n.sent) != 1 || n.sent[0].BookingID != confirmed.ID.Hex() {
		t.Fatalf("expected a single reminder for the confirmed booking, got %+v", n.sent)
	}
}

func TestHandleNotify_MissingDeviceIsNotRetried(t *testing.T) {
	w := &Worker{Notifier: &recordingNotifier{err: notification.ErrNoDeviceToken}, Logger: zap.NewNop()}
	if err := w.HandleNotify(context.Background(), reminderTask(t, primitive.NewObjectID().Hex())); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestHandleNotify_TransientErrorIsRetried(t *testing.T) {
	boom := errors.New("fcm unavailable")
	w := &Worker{Notifier: &recordingNotifier{err: boom}, Logger: zap.NewNop()}
	if err := w.HandleNotify(context.Background(), reminderTask(t, primitive.NewObjectID().Hex())); !errors.Is(err, boom) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestHandleNotify_BadPayloadSkipsRetry(t *testing.T) {
	w := &Worker{Notifier: &recordingNotifier{}, Logger: zap.NewNop()}
	err := w.HandleNotify(context.Background(), asynq.NewTask(tasks.TypeBookingNotify, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

type countingReconciler struct {
	calls int
	err   error
}

func (c *countingReconciler) Reconcile(context.Context) (int, error) {
	c.calls++
	return 3, c.err
}

func TestStartRatingReconciler_RejectsBadSpec(t *testing.T) {
	if _, err := StartRatingReconciler("not a schedule", &countingReconciler{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestReconcileJob_RunsReconciler(t *testing.T) {
	rec := &countingReconciler{}
	reconcileJob(rec, zap.NewNop())()
	rec.err = errors.New("mongo down")
	reconcileJob(rec, zap.NewNop())()
	if rec.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", rec.calls)
	}
}
