package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/video/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/video/service"
)

type Handler struct {
	svc           *service.VideoService
	maxUploadSize int64
}

func New(svc *service.VideoService, maxUploadSize int64) *Handler {
	return &Handler{svc: svc, maxUploadSize: maxUploadSize}
}

func (h *Handler) Register(rg, admin *gin.RouterGroup) {
	rg.GET("/videos", h.ListVideos)

	admin.POST("/videos", h.Upload)
	admin.GET("/videos/uploads/:id", h.GetUpload)
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.svc.ListVideos(c.Request.Context())
	if err != nil {
		writeError(c, "list_videos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// Upload takes a multipart form with the "video" file plus title and
// description. It answers 202 once the bytes are with the platform.
func (h *Handler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		// room for the other form fields
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+1<<20)
	}

	fh, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, "upload_video", domain.ErrTooLarge)
			return
		}
		writeError(c, "upload_video", domain.ErrVideoRequired)
		return
	}
	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		writeError(c, "upload_video", domain.ErrTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, "upload_video", err)
		return
	}
	defer f.Close()

	job, err := h.svc.StartUpload(c.Request.Context(), auth.UserFirebaseUID(c), service.UploadRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Body:        f,
		Size:        fh.Size,
	})
	if err != nil {
		writeError(c, "upload_video", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job": job})
}

func (h *Handler) GetUpload(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "get_upload_job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVideoRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "video service unavailable"})
	}
}
