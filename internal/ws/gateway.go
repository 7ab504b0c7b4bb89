package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messenger-service/internal/observability"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
	"messenger-service/pkg/auth"
)

// GatewayHandler owns the authenticated realtime channel. The credential
// is checked before the upgrade; a connection that fails the handshake
// never processes a single event.
type GatewayHandler struct {
	hub        *Hub
	roomRepo   repositories.RoomRepository
	jwtManager *auth.JWTManager
	audit      *telemetry.AuditEmitter
}

// NewGatewayHandler constructs a GatewayHandler.
func NewGatewayHandler(hub *Hub, roomRepo repositories.RoomRepository, jwtManager *auth.JWTManager, audit *telemetry.AuditEmitter) *GatewayHandler {
	return &GatewayHandler{hub: hub, roomRepo: roomRepo, jwtManager: jwtManager, audit: audit}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle performs the handshake and starts the connection's event loop.
func (h *GatewayHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messenger-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.Query("token")
	if token == "" {
		if header, err := auth.ExtractTokenFromHeader(c.Request); err == nil {
			token = header
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
		return
	}

	identity, err := h.jwtManager.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn := NewConnection(wsConn, identity)
	conn.RequestID = observability.RequestIDFromRequest(c.Request)
	conn.TraceID = span.SpanContext().TraceID().String()
	conn.IP = observability.IPFromRequest(c.Request)

	observability.IncWSActive("gateway")
	observability.IncWSEvent("gateway", "ws_connect")
	log.Printf("ws connect conn=%s user=%d ip=%s trace_id=%s", conn.ID, identity.UserID, conn.IP, conn.TraceID)
	h.audit.EmitConnection(ctx, "ws_connect", conn.ID, conn.RequestID, identity.UserID)

	go h.readLoop(conn)
}

// readLoop processes the connection's events strictly in sequence; each
// event, including its persistence call, completes before the next one
// starts. Independent connections run their own loops concurrently.
func (h *GatewayHandler) readLoop(conn *Connection) {
	ctx := context.Background()
	defer func() {
		h.hub.Drop(conn)
		conn.Close()
		observability.DecWSActive("gateway")
		observability.IncWSEvent("gateway", "ws_disconnect")
		log.Printf("ws disconnect conn=%s user=%d duration=%s", conn.ID, conn.Identity.UserID, time.Since(conn.ConnectedAt))
		h.audit.EmitConnection(ctx, "ws_disconnect", conn.ID, conn.RequestID, conn.Identity.UserID)
	}()

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			return
		}

		event, err := ParseClientEvent(data)
		if err != nil {
			conn.SendError(err.Error())
			continue
		}
		h.dispatch(ctx, conn, event)
	}
}

func (h *GatewayHandler) dispatch(ctx context.Context, conn *Connection, event ClientEvent) {
	switch event.Type {
	case EventJoinRoom:
		h.hub.Join(conn, event.RoomID)
		observability.IncWSEvent("gateway", "join_room")

	case EventLeaveRoom:
		h.hub.Leave(conn, event.RoomID)
		observability.IncWSEvent("gateway", "leave_room")

	case EventSendMessage:
		msg, err := h.roomRepo.CreateChatMessage(ctx, event.RoomID, conn.Identity.UserID, event.Content)
		if err != nil {
			conn.SendError("failed to store message")
			h.audit.EmitConnection(ctx, "persist_failed", conn.ID, conn.RequestID, conn.Identity.UserID)
			return
		}
		h.hub.BroadcastNewMessage(event.RoomID, msg)
	}
}
