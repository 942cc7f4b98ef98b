package notification

import (
	"context"
	"errors"
	"fmt"

	"hausly/database"
	"hausly/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNoDeviceToken is returned when the target user never registered a device.
var ErrNoDeviceToken = errors.New("user has no FCM token")

// MessageSender is satisfied by *messaging.Client.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type UserLookup interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

// NotificationService sends FCM pushes to users.
type NotificationService interface {
	SendPush(ctx context.Context, p models.NotificationPayload) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users  UserLookup
	Sender MessageSender
	Logger *zap.Logger
}

func NewDefaultNotificationService(users UserLookup, sender MessageSender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if users == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: user lookup or sender is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{Users: users, Sender: sender, Logger: logger}, nil
}

// SendPush looks up the target's FCM token and sends a high priority push.
func (s *DefaultNotificationService) SendPush(ctx context.Context, p models.NotificationPayload) error {
	u, err := s.Users.GetByUID(ctx, p.TargetUID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("SendPush: unknown user %s: %w", p.TargetUID, err)
		}
		return fmt.Errorf("SendPush: could not load user %s: %w", p.TargetUID, err)
	}
	if u.FCMToken == "" {
		return ErrNoDeviceToken
	}

	data := map[string]string{
		"type":      string(p.Type),
		"bookingId": p.BookingID,
		"role":      string(u.Role),
	}
	if p.Status != "" {
		data["status"] = string(p.Status)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.Sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendPush: failed to send FCM message: %w", err)
	}
	s.Logger.Debug("push sent", zap.String("messageId", id), zap.String("uid", p.TargetUID), zap.String("type", string(p.Type)))
	return nil
}
