package models

import "time"

// Location anchors a chat room on the map. Owned by the provisioning
// system; read here only for room listings.
type Location struct {
	ID      int    `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	X       int    `db:"x" json:"x"`
	Y       int    `db:"y" json:"y"`
	OwnerID int    `db:"owner_id" json:"ownerId"`
}

// ChatRoom is bound one-to-one to a location and is read-only here.
type ChatRoom struct {
	ID          int       `db:"id" json:"id"`
	LocationID  int       `db:"location_id" json:"locationId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// RoomListing is the API view of a room with its location and owner.
type RoomListing struct {
	ChatRoom
	Location Location    `json:"location"`
	Owner    UserSummary `json:"owner"`
}

// ChatMessage is one entry in a room's append-only log. UserID is nil
// when the authoring account was removed after the fact.
type ChatMessage struct {
	ID         int       `db:"id" json:"id"`
	ChatRoomID int       `db:"chat_room_id" json:"chatRoomId"`
	UserID     *int      `db:"user_id" json:"-"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// ChatMessageWithAuthor attaches the author summary for history and
// broadcast payloads. Author is nil for messages from removed accounts.
type ChatMessageWithAuthor struct {
	ChatMessage
	Author *UserSummary `json:"author"`
}
