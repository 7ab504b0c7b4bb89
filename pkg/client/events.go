package client

import "time"

// Bus topics the realtime client republishes inbound events on.
const (
	TopicNewMessage = "chat:newMessage"
	TopicChatError  = "chat:error"
)

// State change topics published by the store.
const (
	TopicSessionState = "state:session"
	TopicComposeState = "state:compose"
	TopicProfileState = "state:profile"
	TopicWizardState  = "state:wizard"
)

// Author identifies the account behind a room message.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// NewMessageEvent is emitted when a room message is persisted server-side.
type NewMessageEvent struct {
	Type       string    `json:"type"`
	ID         int       `json:"id"`
	Content    string    `json:"content"`
	ChatRoomID int       `json:"chatRoomId"`
	CreatedAt  time.Time `json:"createdAt"`
	Author     *Author   `json:"author"`
}

// ChatErrorEvent is emitted to a single connection when its event was
// rejected.
type ChatErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type clientEvent struct {
	Type    string `json:"type"`
	RoomID  int    `json:"roomId,omitempty"`
	Content string `json:"content,omitempty"`
}
