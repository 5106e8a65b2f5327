package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"six/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The room key in the URL fragment is the access secret; origins are
	// not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and subscribes the caller to one
// room's change feed. Room closure (410) and absence (404) are rejected
// before the upgrade so the client gets a proper status code.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	roomID := c.Query("room")
	if roomID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "room parameter is required"})
		return
	}
	if _, err := h.Rooms.Get(roomID); err != nil {
		abortWithError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, callerIdentity(c), roomID)
	h.Hub.RegisterCh <- client
	client.Run()
}
