package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

// SyncProfile is called by the client right after Firebase sign-in or sign-up.
func (h *Handler) SyncProfile(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
		return
	}

	var body syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
			return
		}
	}

	email := s.Email
	if email == "" {
		email = body.Email
	}

	profile, err := h.authService.SyncProfile(c.Request.Context(), domain.SyncProfileRequest{
		ID:      s.UID,
		Email:   email,
		Name:    body.Name,
		Surname: body.Surname,
		Image:   body.Image,
	})
	if err != nil {
		h.writeError(c, "sync_profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *Handler) GetSession(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":     s.UID,
		"email":   s.Email,
		"admin":   s.IsAdmin(),
		"profile": s.Profile,
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.authService.GetProfile(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		h.writeError(c, "get_profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), auth.UserFirebaseUID(c), domain.UpdateProfileRequest{
		Name:    body.Name,
		Surname: body.Surname,
		Image:   body.Image,
	})
	if err != nil {
		h.writeError(c, "update_profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
