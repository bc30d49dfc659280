package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
)

// Subscriber is implemented by *realtime.Hub.
type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*realtime.Subscription, error)
}

type Handler struct {
	hub      Subscriber
	upgrader websocket.Upgrader
}

func New(hub Subscriber) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			// Origin is enforced by CORS and the bearer token, not the handshake.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/realtime/stream", h.Stream)
	rg.GET("/realtime/ws", h.WebSocket)
}

// topicsFromQuery parses ?topics=a,b and drops duplicates. A missing parameter
// means every topic; a list with no names in it is an error.
func topicsFromQuery(c *gin.Context) ([]string, error) {
	raw := strings.TrimSpace(c.Query("topics"))
	if raw == "" {
		return []string{
			realtime.TopicEvents, realtime.TopicRSVPs, realtime.TopicTransactions,
			realtime.TopicUsers, realtime.TopicContent, realtime.TopicVideos,
		}, nil
	}

	seen := map[string]bool{}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if !realtime.ValidTopic(t) {
			return nil, fmt.Errorf("unknown topic %q", t)
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.New("topics must name at least one topic")
	}
	return out, nil
}
