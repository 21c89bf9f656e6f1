package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"midorisky/internal/modules/notify/domain/repository"
	"midorisky/pkg/util"
	"midorisky/pkg/util/myjwt"
	"midorisky/pkg/ws"
	"midorisky/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WsHandler struct {
	hub      *ws.Hub
	registry repository.ConnectionRegistry
}

func NewWsHandler(hub *ws.Hub, registry repository.ConnectionRegistry) *WsHandler {
	return &WsHandler{
		hub:      hub,
		registry: registry,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// identityAnnounce is the first message a client sends after connecting.
// Browsers cannot set headers on the websocket handshake, so the token
// travels as a query parameter and the username in the announce body.
type identityAnnounce struct {
	Username string `json:"username"`
}

func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")

	var tokenUser string
	if token != "" {
		claims, err := myjwt.ParseToken(token)
		if err != nil || claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tokenUser = claims.Username
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error(err.Error())
		return
	}

	// The server assigns the connection id; the registry row appears only
	// once the client announces who it is.
	connID := util.GenerateConnectionID()
	client := ws.NewClient(connID, conn)
	h.hub.Register(client)
	go client.WritePump()

	_ = h.hub.PostJSON(connID, map[string]interface{}{
		"message":       "Connected",
		"connection_id": connID,
	})

	defer func() {
		h.hub.Unregister(connID)
		// Request context may already be dead here; use Background.
		if err := h.registry.Dissociate(context.Background(), connID); err != nil {
			zlog.Error("disconnect cleanup failed",
				zap.String("connection_id", connID),
				zap.Error(err),
			)
		}
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var announce identityAnnounce
		if err := conn.ReadJSON(&announce); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		username := strings.TrimSpace(announce.Username)
		if username == "" {
			continue
		}
		if tokenUser != "" && username != tokenUser {
			// Announce must match the token identity when one was given.
			continue
		}

		if err := h.registry.Associate(c.Request.Context(), connID, username); err != nil {
			zlog.Error("connection associate failed",
				zap.String("connection_id", connID),
				zap.String("username", username),
				zap.Error(err),
			)
		}
	}
}
