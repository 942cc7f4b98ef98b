package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hausly/models"
	"hausly/services/chat"
	"hausly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventRoomJoined acknowledges a successful join_booking_room.
const EventRoomJoined = "room_joined"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
	frameTimeout   = 10 * time.Second
)

// NewUpgrader returns a websocket upgrader accepting allowedOrigin ("*" for any).
func NewUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
		},
	}
}

// Hub tracks socket connections per booking room. Rooms are process-local;
// when Redis is set, frames are also published so other instances can
// deliver them to their own members.
type Hub struct {
	Messages chat.MessageService
	Redis    *redis.Client
	Logger   *zap.Logger

	id      string
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}
}

func NewHub(messages chat.MessageService, rdb *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Messages: messages,
		Redis:    rdb,
		Logger:   logger,
		id:       uuid.NewString(),
		rooms:    make(map[string]map[*Client]struct{}),
		clients:  make(map[*Client]struct{}),
	}
}

// Broadcast sends event to every member of room on every instance.
func (h *Hub) Broadcast(ctx context.Context, room, event string, payload any) error {
	frame, err := json.Marshal(outFrame{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", event, err)
	}
	h.deliver(room, frame, "")
	return h.publish(ctx, room, frame, "")
}

func (h *Hub) deliver(room string, frame []byte, skip string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c.id == skip {
			continue
		}
		c.enqueue(frame)
	}
}

func (h *Hub) publish(ctx context.Context, room string, frame []byte, skip string) error {
	if h.Redis == nil {
		return nil
	}
	body, err := json.Marshal(envelope{Origin: h.id, Room: room, Skip: skip, Frame: frame})
	if err != nil {
		return err
	}
	if err := h.Redis.Publish(ctx, utils.RoomChannel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish room frame: %w", err)
	}
	return nil
}

// Run relays frames published by other instances until ctx is cancelled,
// then closes every local connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	if h.Redis == nil {
		<-ctx.Done()
		return
	}
	sub := h.Redis.Subscribe(ctx, utils.RoomChannel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.Logger.Warn("Hub: dropping malformed room frame", zap.Error(err))
				continue
			}
			if env.Origin == h.id {
				continue
			}
			h.deliver(env.Room, env.Frame, env.Skip)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	for room := range c.rooms {
		h.removeLocked(room, c)
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, c)
}

func (h *Hub) removeLocked(room string, c *Client) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) inRoom(room string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

// Serve takes ownership of an upgraded connection for sess.
func (h *Hub) Serve(conn *websocket.Conn, sess *models.Session) {
	c := &Client{
		id:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		sess:  sess,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[string]struct{}),
	}
	h.register(c)
	go c.writePump()
	go c.readPump()
}

// Client is one websocket connection. rooms is guarded by the hub's lock.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	sess  *models.Session
	send  chan []byte
	rooms map[string]struct{}
}

// enqueue must be called with the hub lock held. A client whose buffer is
// full is disconnected.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.hub.Logger.Warn("Hub: slow socket client, disconnecting", zap.String("uid", c.sess.UID))
		_ = c.conn.Close()
	}
}

func (c *Client) emit(event string, data any) {
	frame, err := json.Marshal(outFrame{Event: event, Data: data})
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; ok {
		c.enqueue(frame)
	}
}

func (c *Client) emitError(event string, err error) {
	msg := "Internal Server Error"
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	} else {
		c.hub.Logger.Error("Hub: socket event failed", zap.String("event", event), zap.Error(err))
	}
	c.emit(EventError, errorEvent{Event: event, Message: msg})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.Logger.Debug("Hub: socket closed", zap.String("uid", c.sess.UID), zap.Error(err))
			}
			return
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.emit(EventError, errorEvent{Message: "Malformed frame"})
			continue
		}
		c.handle(f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(f Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	switch f.Event {
	case EventJoinRoom:
		id := bookingIDFrom(f.Data)
		if _, err := c.hub.Messages.Authorize(ctx, c.sess, id); err != nil {
			c.emitError(f.Event, err)
			return
		}
		c.hub.join(chat.RoomName(id), c)
		c.emit(EventRoomJoined, roomRequest{BookingID: id})

	case EventLeaveRoom:
		c.hub.leave(chat.RoomName(bookingIDFrom(f.Data)), c)

	case EventNewMessage:
		var req newMessageRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			c.emit(EventError, errorEvent{Event: f.Event, Message: "Malformed message"})
			return
		}
		// The message service broadcasts message_received once the message is stored.
		if _, err := c.hub.Messages.Send(ctx, c.sess, models.SendMessageRequest{
			BookingID: req.BookingID,
			Content:   req.Message,
		}); err != nil {
			c.emitError(f.Event, err)
		}

	case EventTyping:
		var req typingRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			c.emit(EventError, errorEvent{Event: f.Event, Message: "Malformed typing event"})
			return
		}
		room := chat.RoomName(req.BookingID)
		if !c.hub.inRoom(room, c) {
			c.emit(EventError, errorEvent{Event: f.Event, Message: "Join the booking room first"})
			return
		}
		name := req.UserName
		if name == "" && c.sess.User != nil {
			name = c.sess.User.Name
		}
		frame, err := json.Marshal(outFrame{Event: chat.EventUserTyping, Data: typingEvent{
			BookingID: req.BookingID,
			UserID:    c.sess.UID,
			UserName:  name,
			IsTyping:  req.IsTyping,
		}})
		if err != nil {
			return
		}
		c.hub.deliver(room, frame, c.id)
		if err := c.hub.publish(ctx, room, frame, c.id); err != nil {
			c.hub.Logger.Warn("Hub: typing relay failed", zap.Error(err))
		}

	default:
		c.emit(EventError, errorEvent{Event: f.Event, Message: "Unknown event"})
	}
}
