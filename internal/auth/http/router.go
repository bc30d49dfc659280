package http

import "github.com/gin-gonic/gin"

// Register mounts /auth/* and /profile on an authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/sync", h.SyncProfile)
	rg.GET("/auth/session", h.GetSession)
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
}
