package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DevUser trusts the X-User-Id / X-User-Email headers instead of verifying a
// Firebase token. Only wired when no Firebase credentials are configured
// outside production.
func DevUser(profiles ProfileSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id"})
			return
		}

		s := &Session{UID: uid, Email: strings.TrimSpace(c.GetHeader("X-User-Email"))}
		loadProfile(c, profiles, s)
		Attach(c, s)
		c.Next()
	}
}
