package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"messenger-service/internal/models"
)

// Client-to-server event types. Anything else is rejected at the boundary.
const (
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventSendMessage = "sendMessage"
)

// Server-to-client event types.
const (
	EventNewMessage = "newMessage"
	EventChatError  = "chatError"
)

// ClientEvent is the decoded form of every inbound frame.
type ClientEvent struct {
	Type    string `json:"type"`
	RoomID  int    `json:"roomId"`
	Content string `json:"content"`
}

// ParseClientEvent decodes and validates an inbound frame. Validation
// failures are recoverable; the caller answers with a chatError.
func ParseClientEvent(data []byte) (ClientEvent, error) {
	var event ClientEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// The raw decode error is not for clients; the caller ships this
		// text verbatim in a chatError.
		return ClientEvent{}, errors.New("malformed event")
	}

	switch event.Type {
	case EventJoinRoom, EventLeaveRoom:
		if event.RoomID <= 0 {
			return ClientEvent{}, fmt.Errorf("%s requires a room id", event.Type)
		}
	case EventSendMessage:
		if event.RoomID <= 0 {
			return ClientEvent{}, fmt.Errorf("sendMessage requires a room id")
		}
		if event.Content == "" {
			return ClientEvent{}, fmt.Errorf("sendMessage requires content")
		}
	default:
		return ClientEvent{}, fmt.Errorf("unknown event type %q", event.Type)
	}
	return event, nil
}

// NewMessageEvent is broadcast to every connection in a room, the sender
// included; the echo doubles as the sender's acknowledgment.
type NewMessageEvent struct {
	Type       string              `json:"type"`
	ID         int                 `json:"id"`
	Content    string              `json:"content"`
	ChatRoomID int                 `json:"chatRoomId"`
	CreatedAt  time.Time           `json:"createdAt"`
	Author     *models.UserSummary `json:"author"`
}

// ChatErrorEvent goes only to the connection that caused it.
type ChatErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newMessageEvent(msg models.ChatMessageWithAuthor) NewMessageEvent {
	return NewMessageEvent{
		Type:       EventNewMessage,
		ID:         msg.ID,
		Content:    msg.Content,
		ChatRoomID: msg.ChatRoomID,
		CreatedAt:  msg.CreatedAt,
		Author:     msg.Author,
	}
}

func chatErrorEvent(message string) ChatErrorEvent {
	return ChatErrorEvent{Type: EventChatError, Message: message}
}
