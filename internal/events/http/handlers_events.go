package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
)

func (h *Handler) ListEvents(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("filter"))
	if err != nil {
		writeError(c, "list_events", err)
		return
	}

	events, err := h.svc.ListEvents(c.Request.Context(), auth.UserFirebaseUID(c), filter)
	if err != nil {
		writeError(c, "list_events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.svc.GetEvent(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		writeError(c, "get_event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

func (h *Handler) RSVP(c *gin.Context) {
	e, err := h.svc.RSVP(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		writeError(c, "rsvp", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": e})
}
