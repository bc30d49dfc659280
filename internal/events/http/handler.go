package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/events/service"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

type Handler struct {
	svc *service.EventService
}

func New(svc *service.EventService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts member routes on rg and admin routes on admin.
func (h *Handler) Register(rg, admin *gin.RouterGroup) {
	rg.GET("/events", h.ListEvents)
	rg.GET("/events/:id", h.GetEvent)
	rg.POST("/events/:id/rsvp", h.RSVP)

	admin.POST("/events", h.CreateEvent)
	admin.PUT("/events/:id", h.UpdateEvent)
	admin.DELETE("/events/:id", h.DeleteEvent)
	admin.GET("/rsvps", h.ListRSVPs)
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyRSVPd):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventEnded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, location and date are required"})
	case errors.Is(err, domain.ErrImageRequired), errors.Is(err, domain.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
