package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/database"
	"hausly/models"
	"hausly/services/notification"
	"hausly/services/tasks"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingLookup lets the reminder handler drop reminders for bookings that
// were cancelled after the reminder was queued.
type BookingLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}

// Worker consumes booking notification tasks.
type Worker struct {
	Notifier notification.NotificationService
	Bookings BookingLookup
	Logger   *zap.Logger
}

// Mux routes each task type to its handler.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingNotify, w.HandleNotify)
	mux.HandleFunc(tasks.TypeBookingReminder, w.HandleReminder)
	return mux
}

func (w *Worker) HandleNotify(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParsePayload(t)
	if err != nil {
		w.Logger.Error("HandleNotify: invalid payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return w.push(ctx, p)
}

func (w *Worker) HandleReminder(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParsePayload(t)
	if err != nil {
		w.Logger.Error("HandleReminder: invalid payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if w.Bookings != nil {
		oid, err := primitive.ObjectIDFromHex(p.BookingID)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		b, err := w.Bookings.GetByID(ctx, oid)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if b.Status != models.StatusConfirmed {
			w.Logger.Info("HandleReminder: booking no longer confirmed, skipping",
				zap.String("bookingId", p.BookingID), zap.String("status", string(b.Status)))
			return nil
		}
	}
	return w.push(ctx, p)
}

func (w *Worker) push(ctx context.Context, p models.NotificationPayload) error {
	err := w.Notifier.SendPush(ctx, p)
	if errors.Is(err, notification.ErrNoDeviceToken) || errors.Is(err, database.ErrNotFound) {
		w.Logger.Debug("push skipped", zap.String("uid", p.TargetUID), zap.Error(err))
		return nil
	}
	if err != nil {
		w.Logger.Warn("push failed", zap.String("type", string(p.Type)), zap.String("uid", p.TargetUID), zap.Error(err))
	}
	return err
}

// StartWorker runs the asynq server in the background. Start is retried with a
// growing delay so a Redis that comes up late does not kill the process.
func StartWorker(redisOpt asynq.RedisClientOpt, w *Worker) *asynq.Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
		Logger:      w.Logger.Sugar(),
	})

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Start(w.Mux())
			if err == nil {
				w.Logger.Info("Notification worker started")
				return
			}
			w.Logger.Warn("Notification worker failed to start",
				zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempt == maxAttempts {
				w.Logger.Error("Notification worker giving up; pushes will stay queued")
				return
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
	return srv
}
