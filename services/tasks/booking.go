package tasks

import (
	"encoding/json"
	"time"

	"hausly/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingNotify   = "booking:notify"
	TypeBookingReminder = "booking:reminder"
)

// NewBookingNotifyTask wraps an immediate push notification.
func NewBookingNotifyTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingNotify, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// NewBookingReminderTask schedules a reminder for fireAt. The task id is derived
// from the booking so re-confirming never queues a second reminder.
func NewBookingReminderTask(payload models.NotificationPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID + ":" + payload.TargetUID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParsePayload decodes a task body produced by the constructors above.
func ParsePayload(t *asynq.Task) (models.NotificationPayload, error) {
	var p models.NotificationPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
