package realtime

import (
	"encoding/json"
	"strings"
)

// Client -> server events.
const (
	EventJoinRoom   = "join_booking_room"
	EventLeaveRoom  = "leave_booking_room"
	EventNewMessage = "new_message"
	EventTyping     = "typing"
	EventError      = "error"
)

// Frame is the wire shape of every socket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type roomRequest struct {
	BookingID string `json:"bookingId"`
}

type newMessageRequest struct {
	BookingID string `json:"bookingId"`
	Message   string `json:"message"`
}

type typingRequest struct {
	BookingID string `json:"bookingId"`
	IsTyping  bool   `json:"isTyping"`
	UserName  string `json:"userName"`
}

type typingEvent struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	IsTyping  bool   `json:"isTyping"`
}

type errorEvent struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

// bookingIDFrom accepts either a bare string or {"bookingId": "..."}.
func bookingIDFrom(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var req roomRequest
	if err := json.Unmarshal(data, &req); err == nil {
		return strings.TrimSpace(req.BookingID)
	}
	return ""
}

// envelope is what travels over Redis between instances.
type envelope struct {
	Origin string          `json:"origin"`
	Room   string          `json:"room"`
	Skip   string          `json:"skip,omitempty"`
	Frame  json.RawMessage `json:"frame"`
}
