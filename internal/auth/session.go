package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxSession     = "session"
)

// Session is the authenticated caller for one request. Profile is nil until
// the client has synced its profile.
type Session struct {
	UID     string
	Email   string
	Profile *domain.UserProfile
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Profile != nil && s.Profile.Admin
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Attach stores the session on both the gin context and the request context.
func Attach(c *gin.Context, s *Session) {
	c.Set(CtxFirebaseUID, s.UID)
	c.Set(CtxEmail, s.Email)
	c.Set(CtxSession, s)
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
}

// CurrentSession returns the session set by the auth middleware.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}
