package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"messenger-service/pkg/auth"
)

// Connection is one authenticated gateway channel. The identity is bound
// at handshake time and never re-checked per event.
type Connection struct {
	ID          string
	Identity    auth.Identity
	RequestID   string
	TraceID     string
	IP          string
	ConnectedAt time.Time

	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewConnection(conn *websocket.Conn, identity auth.Identity) *Connection {
	return &Connection{
		ID:          uuid.NewString(),
		Identity:    identity,
		ConnectedAt: time.Now(),
		conn:        conn,
	}
}

// Send writes one JSON frame. Writes are serialized because broadcasts
// from other connections' read loops target the same socket.
func (c *Connection) Send(event any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(event)
}

// SendError delivers a scoped chatError to this connection only.
func (c *Connection) SendError(message string) {
	_ = c.Send(chatErrorEvent(message))
}

func (c *Connection) Close() error {
	return c.conn.Close()
}
