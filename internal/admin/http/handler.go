package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/admin/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/admin/service"
	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	authdomain "github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

type Handler struct {
	svc *service.AdminService
}

func New(svc *service.AdminService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the dashboard on an admin-only group.
func (h *Handler) Register(admin *gin.RouterGroup) {
	admin.GET("/users", h.ListUsers)
	admin.POST("/users/:id/toggle-admin", h.ToggleAdmin)
	admin.GET("/stats", h.Stats)
}

func (h *Handler) ListUsers(c *gin.Context) {
	roster, err := h.svc.Roster(c.Request.Context())
	if err != nil {
		writeError(c, "list_users", err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *Handler) ToggleAdmin(c *gin.Context) {
	target := c.Param("id")
	d, err := h.svc.ToggleAdmin(c.Request.Context(), auth.UserFirebaseUID(c), target)
	if err != nil {
		writeError(c, "toggle_admin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": target, "admin": d.Admin, "changed": d.Changed, "admin_count": d.AdminCount})
}

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, "admin_stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrAdminLimitReached):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "max_admins": domain.MaxAdmins})
	case errors.Is(err, domain.ErrSelfModification):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, authdomain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
