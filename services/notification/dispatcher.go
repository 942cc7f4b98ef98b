package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/models"
	"hausly/services/tasks"

	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher turns booking events into queued push tasks.
type AsynqDispatcher struct {
	Client       Enqueuer
	ReminderLead time.Duration
	Location     *time.Location
	now          func() time.Time
}

func NewAsynqDispatcher(client Enqueuer, reminderLead time.Duration, loc *time.Location) *AsynqDispatcher {
	if loc == nil {
		loc = time.Local
	}
	return &AsynqDispatcher{Client: client, ReminderLead: reminderLead, Location: loc, now: time.Now}
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) error {
	if _, err := d.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

func (d *AsynqDispatcher) BookingCreated(ctx context.Context, b *models.Booking) error {
	task, opts, err := tasks.NewBookingNotifyTask(models.NotificationPayload{
		Type:      models.NotifyBookingCreated,
		TargetUID: b.ProviderID,
		BookingID: b.ID.Hex(),
		Title:     "New booking request",
		Body:      fmt.Sprintf("%s requested %s on %s at %s", b.UserName, b.ServiceTitle, b.Date, b.Time),
		Status:    b.Status,
	})
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task, opts)
}

func (d *AsynqDispatcher) StatusChanged(ctx context.Context, b *models.Booking, actorUID string) error {
	for _, uid := range b.NotifyTargets(actorUID) {
		task, opts, err := tasks.NewBookingNotifyTask(models.NotificationPayload{
			Type:      models.NotifyBookingStatusChanged,
			TargetUID: uid,
			BookingID: b.ID.Hex(),
			Title:     "Booking " + string(b.Status),
			Body:      fmt.Sprintf("Your booking for %s on %s is now %s", b.ServiceTitle, b.Date, b.Status),
			Status:    b.Status,
		})
		if err != nil {
			return err
		}
		if err := d.enqueue(ctx, task, opts); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleReminder queues reminders for both parties ReminderLead before the
// appointment. Appointments already inside the lead window are skipped.
func (d *AsynqDispatcher) ScheduleReminder(ctx context.Context, b *models.Booking) error {
	at, err := b.ScheduledAt(d.Location)
	if err != nil {
		return fmt.Errorf("booking %s has unparseable schedule: %w", b.ID.Hex(), err)
	}
	fireAt := at.Add(-d.ReminderLead)
	if !fireAt.After(d.now()) {
		return nil
	}

	for _, uid := range []string{b.UserID, b.ProviderID} {
		task, opts, err := tasks.NewBookingReminderTask(models.NotificationPayload{
			Type:      models.NotifyBookingReminder,
			TargetUID: uid,
			BookingID: b.ID.Hex(),
			Title:     "Upcoming booking",
			Body:      fmt.Sprintf("%s is scheduled for %s at %s", b.ServiceTitle, b.Date, b.Time),
			Status:    b.Status,
		}, fireAt)
		if err != nil {
			return err
		}
		if err := d.enqueue(ctx, task, opts); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			return err
		}
	}
	return nil
}
