package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/chat/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/chat/service"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

type Handler struct {
	svc     *service.ChatService
	limiter *userLimiter
}

func New(svc *service.ChatService, cfg config.ChatConfig) *Handler {
	return &Handler{svc: svc, limiter: newUserLimiter(cfg.RatePerMinute, cfg.Burst)}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/chat")
	g.GET("/messages", h.History)
	g.POST("/messages", h.Send)
	g.DELETE("/messages", h.Clear)
}

func (h *Handler) History(c *gin.Context) {
	msgs, err := h.svc.History(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "chat_history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type sendRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Send(c *gin.Context) {
	var body sendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	uid := auth.UserFirebaseUID(c)
	if !h.limiter.Allow(uid) {
		writeError(c, "chat_send", domain.ErrRateLimited)
		return
	}

	user, reply, err := h.svc.Send(c.Request.Context(), uid, body.Text)
	if err != nil {
		writeError(c, "chat_send", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": user, "reply": reply})
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), auth.UserFirebaseUID(c)); err != nil {
		writeError(c, "chat_clear", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
