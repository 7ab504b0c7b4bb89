package client

import (
	"encoding/json"
	"log"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// RealtimeClient maintains the single authenticated websocket channel
// for a session and republishes inbound events on the bus.
type RealtimeClient struct {
	baseURL string
	store   *StateStore
	bus     *EventBus

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewRealtimeClient constructs a client against baseURL, e.g.
// "ws://localhost:8083".
func NewRealtimeClient(baseURL string, store *StateStore, bus *EventBus) *RealtimeClient {
	return &RealtimeClient{baseURL: baseURL, store: store, bus: bus}
}

// Connect opens the channel with the store-held credential. Calling it
// while connected is a no-op; a missing credential is logged and
// swallowed so UI flows never branch on it.
func (c *RealtimeClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	token := c.store.GetState().Session.Token
	if token == "" {
		log.Printf("realtime connect skipped: no credential")
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.baseURL+"/ws/chat?token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}

	c.conn = conn
	go c.readLoop(conn)
	return nil
}

// JoinRoom subscribes the channel to a room. Silent no-op when not
// connected.
func (c *RealtimeClient) JoinRoom(roomID int) error {
	return c.send(clientEvent{Type: "joinRoom", RoomID: roomID})
}

// LeaveRoom unsubscribes the channel from a room. Silent no-op when not
// connected.
func (c *RealtimeClient) LeaveRoom(roomID int) error {
	return c.send(clientEvent{Type: "leaveRoom", RoomID: roomID})
}

// SendMessage submits a room message. Silent no-op when not connected;
// the acknowledgment is the echoed newMessage event.
func (c *RealtimeClient) SendMessage(roomID int, content string) error {
	return c.send(clientEvent{Type: "sendMessage", RoomID: roomID, Content: content})
}

// Disconnect closes the channel. Idempotent.
func (c *RealtimeClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
}

func (c *RealtimeClient) send(event clientEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		log.Printf("realtime %s dropped: not connected", event.Type)
		return nil
	}
	return c.conn.WriteJSON(event)
}

func (c *RealtimeClient) readLoop(conn *websocket.Conn) {
	defer c.dropConn(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			log.Printf("realtime inbound decode failed: %v", err)
			continue
		}

		switch head.Type {
		case "newMessage":
			var event NewMessageEvent
			if err := json.Unmarshal(data, &event); err != nil {
				log.Printf("realtime newMessage decode failed: %v", err)
				continue
			}
			c.bus.Publish(TopicNewMessage, event)

		case "chatError":
			var event ChatErrorEvent
			if err := json.Unmarshal(data, &event); err != nil {
				log.Printf("realtime chatError decode failed: %v", err)
				continue
			}
			log.Printf("realtime chat error: %s", event.Message)
			c.bus.Publish(TopicChatError, event)

		default:
			log.Printf("realtime unknown event type=%q", head.Type)
		}
	}
}

// dropConn forgets the connection only if it is still the active one;
// a reconnect may already have replaced it.
func (c *RealtimeClient) dropConn(conn *websocket.Conn) {
	_ = conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}
