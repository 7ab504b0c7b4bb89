package ws

import (
	"log"
	"sync"

	"messenger-service/internal/models"
	"messenger-service/internal/observability"
)

// Hub is the explicit room membership registry. It maps room ids to the
// connections currently joined and tracks the inverse set per connection
// so a disconnect can drop every membership at once.
type Hub struct {
	rooms map[int]map[*Connection]bool
	joins map[*Connection]map[int]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int]map[*Connection]bool),
		joins: make(map[*Connection]map[int]bool),
	}
}

// Join adds the connection to a room's broadcast group.
func (h *Hub) Join(conn *Connection, roomID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Connection]bool)
	}
	h.rooms[roomID][conn] = true
	if _, ok := h.joins[conn]; !ok {
		h.joins[conn] = make(map[int]bool)
	}
	h.joins[conn][roomID] = true
}

// Leave removes one membership; no-op when the connection is not a member.
func (h *Hub) Leave(conn *Connection, roomID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(conn, roomID)
}

// Drop removes the connection from every room it had joined. No peer-left
// notification is broadcast.
func (h *Hub) Drop(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range h.joins[conn] {
		h.leaveLocked(conn, roomID)
	}
}

func (h *Hub) leaveLocked(conn *Connection, roomID int) {
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if joined, ok := h.joins[conn]; ok {
		delete(joined, roomID)
		if len(joined) == 0 {
			delete(h.joins, conn)
		}
	}
}

// IsMember reports whether the connection currently belongs to the room.
func (h *Hub) IsMember(conn *Connection, roomID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.joins[conn][roomID]
}

// RoomSize returns the number of connections joined to a room.
func (h *Hub) RoomSize(roomID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastNewMessage sends the persisted record to every connection in
// the room, the originator included. A failed write closes that
// connection only; the broadcast continues.
func (h *Hub) BroadcastNewMessage(roomID int, msg models.ChatMessageWithAuthor) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.rooms[roomID]))
	for conn := range h.rooms[roomID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := newMessageEvent(msg)
	for _, conn := range conns {
		if err := conn.Send(event); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.Drop(conn)
			observability.IncWSEvent("gateway", "ws_error")
		}
	}
	observability.IncWSEvent("gateway", "broadcast")
}
