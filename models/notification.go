package models

// NotificationType identifies a push notification template.
type NotificationType string

const (
	NotifyBookingCreated       NotificationType = "booking_created"
	NotifyBookingStatusChanged NotificationType = "booking_status_changed"
	NotifyBookingReminder      NotificationType = "booking_reminder"
)

// NotificationPayload is the body of a queued push notification task.
type NotificationPayload struct {
	Type      NotificationType `json:"type"`
	TargetUID string           `json:"targetUid"`
	BookingID string           `json:"bookingId"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Status    BookingStatus    `json:"status,omitempty"`
}
