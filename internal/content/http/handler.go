package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/content/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/content/service"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
)

type Handler struct {
	svc *service.ContentService
}

func New(svc *service.ContentService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg, admin *gin.RouterGroup) {
	g := rg.Group("/content")
	g.GET("/monday-motivation", h.MondayMotivation)
	g.GET("/thoughts", h.ListThoughts)
	g.GET("/thoughts/:id", h.GetThought)
	g.GET("/media", h.ListMedia)
	g.GET("/blogs", h.ListBlogs)
	g.GET("/blogs/:id", h.GetBlog)

	a := admin.Group("/content")
	a.POST("/monday-motivation", h.createVideo(domain.KindMondayMotivation))
	a.POST("/thoughts", h.createVideo(domain.KindThought))
	a.POST("/media", h.CreateMedia)
	a.POST("/blogs", h.CreateBlog)
}

// MondayMotivation returns this week's post and the archive.
func (h *Handler) MondayMotivation(c *gin.Context) {
	ctx := c.Request.Context()
	current, err := h.svc.CurrentVideo(ctx, domain.KindMondayMotivation)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeError(c, "monday_motivation", err)
		return
	}
	all, err := h.svc.ListVideos(ctx, domain.KindMondayMotivation)
	if err != nil {
		writeError(c, "monday_motivation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": current, "posts": all})
}

func (h *Handler) ListThoughts(c *gin.Context) {
	posts, err := h.svc.ListVideos(c.Request.Context(), domain.KindThought)
	if err != nil {
		writeError(c, "list_thoughts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thoughts": posts})
}

func (h *Handler) GetThought(c *gin.Context) {
	p, err := h.svc.GetVideo(c.Request.Context(), domain.KindThought, c.Param("id"))
	if err != nil {
		writeError(c, "get_thought", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thought": p})
}

func (h *Handler) ListMedia(c *gin.Context) {
	media, err := h.svc.ListMedia(c.Request.Context())
	if err != nil {
		writeError(c, "list_media", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (h *Handler) ListBlogs(c *gin.Context) {
	blogs, err := h.svc.ListBlogs(c.Request.Context())
	if err != nil {
		writeError(c, "list_blogs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func (h *Handler) GetBlog(c *gin.Context) {
	b, err := h.svc.GetBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "get_blog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": b})
}

func (h *Handler) createVideo(kind domain.VideoKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		video, closer, err := formFile(c, "video")
		if err != nil {
			writeError(c, "create_"+string(kind), err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}

		p, err := h.svc.CreateVideo(c.Request.Context(), auth.UserFirebaseUID(c), kind,
			c.PostForm("topic"), c.PostForm("description"), video)
		if err != nil {
			writeError(c, "create_"+string(kind), err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"post": p})
	}
}

func (h *Handler) CreateMedia(c *gin.Context) {
	image, closer, err := formFile(c, "image")
	if err != nil {
		writeError(c, "create_media", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	m, err := h.svc.CreateMedia(c.Request.Context(), auth.UserFirebaseUID(c), domain.Media{
		Title:       c.PostForm("title"),
		Type:        c.PostForm("type"),
		Description: c.PostForm("description"),
		Link:        c.PostForm("link"),
	}, image)
	if err != nil {
		writeError(c, "create_media", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"media": m})
}

func (h *Handler) CreateBlog(c *gin.Context) {
	image, closer, err := formFile(c, "image")
	if err != nil {
		writeError(c, "create_blog", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	b, err := h.svc.CreateBlog(c.Request.Context(), auth.UserFirebaseUID(c), c.PostForm("title"), c.PostForm("content"), image)
	if err != nil {
		writeError(c, "create_blog", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blog": b})
}

// formFile returns nil without error when field is absent.
func formFile(c *gin.Context, field string) (*objectstore.File, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	return objectstore.FromMultipart(fh)
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "required fields are missing"})
	case errors.Is(err, domain.ErrVideoRequired),
		errors.Is(err, domain.ErrImageRequired),
		errors.Is(err, domain.ErrInvalidMediaType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
