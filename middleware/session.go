package middleware

import (
	"errors"
	"net/http"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/session"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session_id"
	sessionKey    = "session"
	managerKey    = "session_manager"
	secureKey     = "session_secure"
)

// Sessions attaches the browser's session to the context when its cookie
// names a live one. Nothing is stored for cookieless requests; handlers
// that need to keep state call EnsureSession.
func Sessions(m *session.Manager, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(managerKey, m)
		c.Set(secureKey, secure)

		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			s, err := m.Get(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(sessionKey, s)
			case !errors.Is(err, customerrors.ErrSessionNotFound):
				_ = c.Error(err)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// CurrentSession returns the session attached by Sessions or EnsureSession, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// EnsureSession returns the current session, starting an anonymous one
// and setting its cookie when there is none.
func EnsureSession(c *gin.Context) (*session.Session, error) {
	if s := CurrentSession(c); s != nil {
		return s, nil
	}
	m, ok := c.MustGet(managerKey).(*session.Manager)
	if !ok {
		return nil, errors.New("session manager not configured")
	}

	s, err := m.Create(c.Request.Context())
	if err != nil {
		return nil, err
	}
	c.Set(sessionKey, s)
	IssueSessionCookie(c, s)
	return s, nil
}

// IssueSessionCookie points the browser at s. It must be called whenever
// the session id changes.
func IssueSessionCookie(c *gin.Context, s *session.Session) {
	c.Set(sessionKey, s)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, s.ID, 0, "/", "", c.GetBool(secureKey), true)
}
