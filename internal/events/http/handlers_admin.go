package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/events/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Type        *string    `json:"type"`
}

// CreateEvent takes a multipart form: title, description, date (RFC 3339),
// location, type and the image file.
func (h *Handler) CreateEvent(c *gin.Context) {
	date, err := time.Parse(time.RFC3339, c.PostForm("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC 3339"})
		return
	}

	req := domain.CreateEventRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Date:        date,
		Location:    c.PostForm("location"),
		Type:        c.PostForm("type"),
	}

	var image *objectstore.File
	if fh, err := c.FormFile("image"); err == nil {
		f, closer, err := objectstore.FromMultipart(fh)
		if err != nil {
			writeError(c, "create_event", err)
			return
		}
		defer closer.Close()
		image = f
	}

	e, err := h.svc.CreateEvent(c.Request.Context(), req, image)
	if err != nil {
		writeError(c, "create_event", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": e})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	var body updateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	e, err := h.svc.UpdateEvent(c.Request.Context(), c.Param("id"), domain.UpdateEventRequest{
		Title:       body.Title,
		Description: body.Description,
		Date:        body.Date,
		Location:    body.Location,
		Type:        body.Type,
	})
	if err != nil {
		writeError(c, "update_event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "delete_event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRSVPs(c *gin.Context) {
	rsvps, err := h.svc.ListRSVPDetails(c.Request.Context())
	if err != nil {
		writeError(c, "list_rsvps", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}
