package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hausly/models"
	"hausly/services/chat"
	"hausly/utils"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeMessages struct {
	hub     *Hub
	booking *models.Booking
}

func (f *fakeMessages) Authorize(_ context.Context, sess *models.Session, id string) (*models.Booking, error) {
	if id != f.booking.ID.Hex() {
		return nil, utils.NewNotFoundError(utils.CodeBookingNotFound, "Booking not found")
	}
	if !f.booking.IsParticipant(sess.UID) {
		return nil, utils.NewForbiddenError(utils.CodeNotParticipant, "You are not a participant in this booking")
	}
	return f.booking, nil
}

func (f *fakeMessages) Send(ctx context.Context, sess *models.Session, req models.SendMessageRequest) (*models.Message, error) {
	b, err := f.Authorize(ctx, sess, req.BookingID)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{ID: primitive.NewObjectID(), BookingID: b.ID, SenderID: sess.UID, Content: req.Content}
	_ = f.hub.Broadcast(ctx, chat.RoomName(req.BookingID), chat.EventMessageReceived, msg)
	return msg, nil
}

func (f *fakeMessages) History(context.Context, *models.Session, string) ([]models.Message, error) {
	return nil, nil
}

func (f *fakeMessages) MarkRead(context.Context, *models.Session, string) (int64, error) {
	return 0, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *models.Booking) {
	t.Helper()
	booking := &models.Booking{ID: primitive.NewObjectID(), UserID: "cust", ProviderID: "prov", Status: models.StatusConfirmed}
	msgs := &fakeMessages{booking: booking}
	hub := NewHub(msgs, nil, nil)
	msgs.hub = hub
	upgrader := NewUpgrader("*")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		uid := r.URL.Query().Get("uid")
		hub.Serve(conn, &models.Session{Identity: models.Identity{UID: uid}, User: &models.User{UID: uid, Name: uid}})
	}))
	t.Cleanup(srv.Close)
	return srv, booking
}

func dial(t *testing.T, srv *httptest.Server, uid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?uid=" + uid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", uid, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type inFrame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	if err := conn.WriteJSON(outFrame{Event: event, Data: data}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

func read(t *testing.T, conn *websocket.Conn) inFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f inFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func join(t *testing.T, conn *websocket.Conn, bookingID string) {
	t.Helper()
	send(t, conn, EventJoinRoom, bookingID)
	if f := read(t, conn); f.Event != EventRoomJoined {
		t.Fatalf("expected %s, got %s %v", EventRoomJoined, f.Event, f.Data)
	}
}

func TestHub_MessageReachesBothParticipants(t *testing.T) {
	srv, b := newTestServer(t)
	customer := dial(t, srv, "cust")
	provider := dial(t, srv, "prov")
	join(t, customer, b.ID.Hex())
	join(t, provider, b.ID.Hex())

	send(t, customer, EventNewMessage, map[string]string{"bookingId": b.ID.Hex(), "message": "On my way?"})

	for _, conn := range []*websocket.Conn{provider, customer} {
		f := read(t, conn)
		if f.Event != chat.EventMessageReceived {
			t.Fatalf("expected message_received, got %s", f.Event)
		}
		if f.Data["content"] != "On my way?" || f.Data["senderId"] != "cust" {
			t.Fatalf("unexpected payload %v", f.Data)
		}
	}
}

func TestHub_OutsiderCannotJoin(t *testing.T) {
	srv, b := newTestServer(t)
	outsider := dial(t, srv, "someone-else")

	send(t, outsider, EventJoinRoom, map[string]string{"bookingId": b.ID.Hex()})
	f := read(t, outsider)
	if f.Event != EventError {
		t.Fatalf("expected error frame, got %s", f.Event)
	}
	if f.Data["event"] != EventJoinRoom {
		t.Fatalf("error should name the failed event, got %v", f.Data)
	}
}

func TestHub_TypingGoesToOthersOnly(t *testing.T) {
	srv, b := newTestServer(t)
	customer := dial(t, srv, "cust")
	provider := dial(t, srv, "prov")
	join(t, customer, b.ID.Hex())
	join(t, provider, b.ID.Hex())

	send(t, customer, EventTyping, map[string]any{"bookingId": b.ID.Hex(), "isTyping": true})
	f := read(t, provider)
	if f.Event != chat.EventUserTyping || f.Data["userId"] != "cust" || f.Data["userName"] != "cust" {
		t.Fatalf("unexpected typing frame %s %v", f.Event, f.Data)
	}

	// The sender's next frame is the message, not its own typing event.
	send(t, customer, EventNewMessage, map[string]string{"bookingId": b.ID.Hex(), "message": "hi"})
	if f := read(t, customer); f.Event != chat.EventMessageReceived {
		t.Fatalf("sender received %s", f.Event)
	}
}

func TestHub_TypingRequiresMembership(t *testing.T) {
	srv, b := newTestServer(t)
	customer := dial(t, srv, "cust")

	send(t, customer, EventTyping, map[string]any{"bookingId": b.ID.Hex(), "isTyping": true})
	if f := read(t, customer); f.Event != EventError {
		t.Fatalf("expected error frame, got %s", f.Event)
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	srv, b := newTestServer(t)
	customer := dial(t, srv, "cust")
	provider := dial(t, srv, "prov")
	join(t, customer, b.ID.Hex())
	join(t, provider, b.ID.Hex())

	send(t, provider, EventLeaveRoom, b.ID.Hex())
	// Round trip through the provider's own connection so the leave is processed.
	send(t, provider, "ping_unknown", nil)
	if f := read(t, provider); f.Event != EventError {
		t.Fatalf("expected error for unknown event, got %s", f.Event)
	}

	send(t, customer, EventNewMessage, map[string]string{"bookingId": b.ID.Hex(), "message": "still there?"})
	if f := read(t, customer); f.Event != chat.EventMessageReceived {
		t.Fatalf("customer got %s", f.Event)
	}
	_ = provider.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var f inFrame
	if err := provider.ReadJSON(&f); err == nil {
		t.Fatalf("provider should not receive frames after leaving, got %s", f.Event)
	}
}
