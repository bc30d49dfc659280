package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
)

// TokenVerifier is satisfied by *firebase auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// ProfileSource loads the stored profile for a verified uid.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// ProfileProvisioner is implemented by the user repository. When the profile
// source also provisions, a verified user with no row gets a minimal one, so
// rows that reference users can be written before the first profile sync.
type ProfileProvisioner interface {
	Upsert(ctx context.Context, req domain.SyncProfileRequest) (*domain.UserProfile, error)
}

// FirebaseAuth validates the Bearer ID token and attaches a Session.
func FirebaseAuth(verifier TokenVerifier, profiles ProfileSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		s := &Session{UID: decoded.UID}
		if email, ok := decoded.Claims["email"].(string); ok {
			s.Email = email
		}
		loadProfile(c, profiles, s)

		Attach(c, s)
		c.Next()
	}
}

// RequireAdmin must run after FirebaseAuth or DevUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}
		if !s.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// A missing profile is provisioned when profiles supports it; errors are
// logged and the request continues without one.
func loadProfile(c *gin.Context, profiles ProfileSource, s *Session) {
	if profiles == nil {
		return
	}
	p, err := profiles.GetProfile(c.Request.Context(), s.UID)
	switch {
	case err == nil:
		s.Profile = p
		if s.Email == "" {
			s.Email = p.Email
		}
	case errors.Is(err, domain.ErrUserNotFound):
		provisioner, ok := profiles.(ProfileProvisioner)
		if !ok {
			return
		}
		p, err = provisioner.Upsert(c.Request.Context(), domain.SyncProfileRequest{ID: s.UID, Email: s.Email})
		if err != nil {
			logging.New(c.Request.Context()).Error("provision_profile", err)
			return
		}
		s.Profile = p
	default:
		logging.New(c.Request.Context()).Error("load_profile", err)
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
