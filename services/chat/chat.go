package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"hausly/database"
	messageRepo "hausly/database/repository/message"
	"hausly/models"
	"hausly/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event names shared with socket clients.
const (
	EventMessageReceived = "message_received"
	EventUserTyping      = "user_typing"
)

const historyLimit = 500

// RoomName is the broadcast room for a booking's conversation.
func RoomName(bookingID string) string {
	return "booking:" + bookingID
}

// Broadcaster delivers an event to every connection joined to room.
type Broadcaster interface {
	Broadcast(ctx context.Context, room, event string, payload any) error
}

type BookingLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}

// MessageService stores booking conversations. A message is broadcast only
// after it has been persisted, and the broadcast carries the stored document.
type MessageService interface {
	Send(ctx context.Context, sess *models.Session, req models.SendMessageRequest) (*models.Message, error)
	History(ctx context.Context, sess *models.Session, bookingID string) ([]models.Message, error)
	MarkRead(ctx context.Context, sess *models.Session, bookingID string) (int64, error)
	// Authorize returns the booking if sess may read its conversation.
	Authorize(ctx context.Context, sess *models.Session, bookingID string) (*models.Booking, error)
}

type DefaultMessageService struct {
	Repo        messageRepo.MessageRepository
	Bookings    BookingLookup
	Broadcaster Broadcaster
	Logger      *zap.Logger
}

func (s *DefaultMessageService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultMessageService) Authorize(ctx context.Context, sess *models.Session, bookingID string) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, utils.NewValidationError(utils.CodeInvalidID, "Invalid booking ID format")
	}
	b, err := s.Bookings.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeBookingNotFound, "Booking not found")
		}
		return nil, err
	}
	if !b.IsParticipant(sess.UID) && !sess.IsAdmin() {
		return nil, utils.NewForbiddenError(utils.CodeNotParticipant, "You are not a participant in this booking")
	}
	return b, nil
}

func (s *DefaultMessageService) Send(ctx context.Context, sess *models.Session, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, utils.NewValidationError(utils.CodeValidation, "Message content is required")
	}
	b, err := s.Authorize(ctx, sess, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(sess.UID) {
		return nil, utils.NewForbiddenError(utils.CodeNotParticipant, "Only booking participants can send messages")
	}
	if b.Status.IsTerminal() {
		return nil, utils.NewValidationError(utils.CodeConversationClosed, "This booking's conversation is closed")
	}

	msg := &models.Message{
		BookingID:   b.ID,
		SenderID:    sess.UID,
		RecipientID: b.Counterparty(sess.UID),
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if sess.User != nil {
		msg.SenderName = sess.User.Name
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.Broadcaster != nil {
		if err := s.Broadcaster.Broadcast(ctx, RoomName(b.ID.Hex()), EventMessageReceived, msg); err != nil {
			s.log().Warn("Send: broadcast failed", zap.String("bookingId", b.ID.Hex()), zap.Error(err))
		}
	}
	return msg, nil
}

func (s *DefaultMessageService) History(ctx context.Context, sess *models.Session, bookingID string) ([]models.Message, error) {
	b, err := s.Authorize(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	// The store hands back the latest messages newest first; callers read oldest first.
	msgs, err := s.Repo.ListByBooking(ctx, b.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *DefaultMessageService) MarkRead(ctx context.Context, sess *models.Session, bookingID string) (int64, error) {
	b, err := s.Authorize(ctx, sess, bookingID)
	if err != nil {
		return 0, err
	}
	return s.Repo.MarkRead(ctx, b.ID, sess.UID)
}
