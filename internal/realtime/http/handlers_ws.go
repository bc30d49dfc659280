package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

const writeWait = 10 * time.Second

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WebSocket serves the same feed as Stream over a WebSocket. Client frames are
// read only to detect disconnects.
func (h *Handler) WebSocket(c *gin.Context) {
	topics, err := topicsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()
	log := logging.New(ctx)

	sub, err := h.hub.Subscribe(ctx, topics...)
	if err != nil {
		log.Error("realtime_subscribe", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime feed unavailable"})
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket_upgrade", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg wsMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := send(wsMessage{Type: "ready", Data: gin.H{"topics": topics}}); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ch, ok := <-sub.C():
			if !ok {
				return
			}
			if !ch.VisibleTo(uid) {
				continue
			}
			if err := send(wsMessage{Type: "change", Data: ch}); err != nil {
				log.Warnf("websocket_write", "uid=%s err=%v", uid, err)
				return
			}
		}
	}
}
