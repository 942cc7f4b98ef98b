package chat

import (
	"context"
	"errors"
	"strconv"
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

type memMessages struct {
	stored []models.Message
	fail   bool
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
	if m.fail {
		return errors.New("write failed")
	}
	msg.ID = primitive.NewObjectID()
	m.stored = append(m.stored, *msg)
	return nil
}

func (m *memMessages) ListByBooking(_ context.Context, id primitive.ObjectID, limit int64) ([]models.Message, error) {
	out := []models.Message{}
	for i := len(m.stored) - 1; i >= 0; i-- {
		if m.stored[i].BookingID != id {
			continue
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
		out = append(out, m.stored[i])
	}
	return out, nil
}

func (m *memMessages) MarkRead(_ context.Context, id primitive.ObjectID, recipient string) (int64, error) {
	var n int64
	for i := range m.stored {
		if m.stored[i].BookingID == id && m.stored[i].RecipientID == recipient && !m.stored[i].Read {
			m.stored[i].Read = true
			n++
		}
	}
	return n, nil
}

type recordingBroadcaster struct {
	rooms  []string
	events []string
	last   any
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, room, event string, payload any) error {
	r.rooms = append(r.rooms, room)
	r.events = append(r.events, event)
	r.last = payload
	return nil
}

func sessionFor(uid string) *models.Session {
	return &models.Session{Identity: models.Identity{UID: uid}, User: &models.User{UID: uid, Name: uid, Role: models.RoleCustomer}}
}

func setup(status models.BookingStatus) (*DefaultMessageService, *memMessages, *recordingBroadcaster, *models.Booking) {
	b := &models.Booking{ID: primitive.NewObjectID(), UserID: "c1", ProviderID: "p1", Status: status}
	msgs := &memMessages{}
	bc := &recordingBroadcaster{}
	return &DefaultMessageService{Repo: msgs, Bookings: bookingMap{b.ID: b}, Broadcaster: bc}, msgs, bc, b
}

func TestSend_PersistsThenBroadcastsStoredDocument(t *testing.T) {
	svc, msgs, bc, b := setup(models.StatusConfirmed)

	msg, err := svc.Send(context.Background(), sessionFor("c1"), models.SendMessageRequest{BookingID: b.ID.Hex(), Content: " hello "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs.stored) != 1 || msg.RecipientID != "p1" || msg.Content != "hello" {
		t.Fatalf("unexpected stored message: %+v", msgs.stored)
	}
	if len(bc.events) != 1 || bc.events[0] != EventMessageReceived || bc.rooms[0] != RoomName(b.ID.Hex()) {
		t.Fatalf("unexpected broadcast: %+v", bc)
	}
	sent, ok := bc.last.(*models.Message)
	if !ok || sent.ID.IsZero() {
		t.Fatalf("expected persisted message with id in broadcast, got %#v", bc.last)
	}
}

func TestSend_FailedWriteIsNotBroadcast(t *testing.T) {
	svc, msgs, bc, b := setup(models.StatusPending)
	msgs.fail = true

	if _, err := svc.Send(context.Background(), sessionFor("p1"), models.SendMessageRequest{BookingID: b.ID.Hex(), Content: "hi"}); err == nil {
		t.Fatalf("expected error")
	}
	if len(bc.events) != 0 {
		t.Fatalf("expected no broadcast, got %v", bc.events)
	}
}

func TestSend_Rules(t *testing.T) {
	svc, _, _, b := setup(models.StatusCompleted)
	ctx := context.Background()

	_, err := svc.Send(ctx, sessionFor("c1"), models.SendMessageRequest{BookingID: b.ID.Hex(), Content: "hi"})
	if !utils.IsCode(err, utils.CodeConversationClosed) {
		t.Fatalf("expected CONVERSATION_CLOSED, got %v", err)
	}
	_, err = svc.Send(ctx, sessionFor("x9"), models.SendMessageRequest{BookingID: b.ID.Hex(), Content: "hi"})
	if !utils.IsCode(err, utils.CodeNotParticipant) {
		t.Fatalf("expected NOT_BOOKING_PARTICIPANT, got %v", err)
	}
}

func TestMarkRead_OnlyCallerInbound(t *testing.T) {
	svc, _, _, b := setup(models.StatusConfirmed)
	ctx := context.Background()
	for _, uid := range []string{"c1", "c1", "p1"} {
		if _, err := svc.Send(ctx, sessionFor(uid), models.SendMessageRequest{BookingID: b.ID.Hex(), Content: "x"}); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	n, err := svc.MarkRead(ctx, sessionFor("p1"), b.ID.Hex())
	if err != nil || n != 2 {
		t.Fatalf("expected 2 messages marked read, got %d (%v)", n, err)
	}
}

func TestHistory_KeepsLatestMessagesInOrder(t *testing.T) {
	svc, msgs, _, b := setup(models.StatusConfirmed)
	total := historyLimit + 20
	for i := 0; i < total; i++ {
		msgs.stored = append(msgs.stored, models.Message{ID: primitive.NewObjectID(), BookingID: b.ID, Content: strconv.Itoa(i)})
	}

	history, err := svc.History(context.Background(), sessionFor("c1"), b.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != historyLimit {
		t.Fatalf("got %d messages, want %d", len(history), historyLimit)
	}
	if first := history[0].Content; first != strconv.Itoa(total-historyLimit) {
		t.Fatalf("oldest returned message = %s", first)
	}
	if last := history[len(history)-1].Content; last != strconv.Itoa(total-1) {
		t.Fatalf("newest message missing, last = %s", last)
	}
}
