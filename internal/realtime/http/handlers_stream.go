package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

var keepAliveInterval = 15 * time.Second

// Stream sends the change feed as Server-Sent Events.
func (h *Handler) Stream(c *gin.Context) {
	topics, err := topicsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := auth.UserFirebaseUID(c)

	ctx := c.Request.Context()
	sub, err := h.hub.Subscribe(ctx, topics...)
	if err != nil {
		logging.New(ctx).Error("realtime_subscribe", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime feed unavailable"})
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	ready, _ := json.Marshal(gin.H{"topics": topics})
	fmt.Fprintf(c.Writer, "event: ready\ndata: %s\n\n", ready)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ch, ok := <-sub.C():
			if !ok {
				return
			}
			if !ch.VisibleTo(uid) {
				continue
			}
			data, err := json.Marshal(ch)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ch.Topic, data)
			flusher.Flush()
		}
	}
}
