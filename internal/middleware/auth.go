package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/config"
	"github.com/handywriterz/core/internal/modules/auth/identity"
	"github.com/handywriterz/core/internal/pkg/response"
)

const (
	ContextKeySession = "identity_session"
	ContextKeyIsAdmin = "identity_is_admin"
)

// Guard turns identity answers into route guards. Guards never fail with a
// server error: a missing or unreadable session is answered with a redirect hint.
type Guard struct {
	adapter          *identity.Adapter
	cookies          identity.CookieNames
	loginPath        string
	unauthorizedPath string
}

func NewGuard(adapter *identity.Adapter, cfg config.IdentityConfig) *Guard {
	return &Guard{
		adapter:          adapter,
		cookies:          identity.CookieNames{Admin: cfg.AdminCookie, Site: cfg.SiteCookie},
		loginPath:        cfg.LoginPath,
		unauthorizedPath: cfg.UnauthorizedPath,
	}
}

// RequireAdmin admits requests whose identity passes the admin check.
// No session answers 401 pointing at the login path; a non-admin session answers
// 403 pointing at the unauthorized view.
func (g *Guard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, admin := g.adapter.Access(c.Request.Context(), identity.FromRequest(c, g.cookies))
		if s == nil {
			response.Unauthorized(c, g.loginPath)
			return
		}
		if !admin {
			response.Forbidden(c, g.unauthorizedPath)
			return
		}
		c.Set(ContextKeySession, s)
		c.Set(ContextKeyIsAdmin, true)
		c.Next()
	}
}

// RequireSession admits any signed-in identity.
func (g *Guard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, admin := g.adapter.Access(c.Request.Context(), identity.FromRequest(c, g.cookies))
		if s == nil {
			response.Unauthorized(c, g.loginPath)
			return
		}
		c.Set(ContextKeySession, s)
		c.Set(ContextKeyIsAdmin, admin)
		c.Next()
	}
}

// Optional records the identity when present but never blocks.
func (g *Guard) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, admin := g.adapter.Access(c.Request.Context(), identity.FromRequest(c, g.cookies)); s != nil {
			c.Set(ContextKeySession, s)
			c.Set(ContextKeyIsAdmin, admin)
		}
		c.Next()
	}
}

// CurrentSession returns the identity session set by a guard, or nil.
func CurrentSession(c *gin.Context) *identity.Session {
	v, _ := c.Get(ContextKeySession)
	s, _ := v.(*identity.Session)
	return s
}

// CurrentUserID returns the signed-in user's id, or "".
func CurrentUserID(c *gin.Context) string {
	if s := CurrentSession(c); s != nil {
		return s.User.ID
	}
	return ""
}

// IsAuthenticated reports whether a guard admitted a session for this request.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentSession(c) != nil
}

// IsAdmin reports whether the admitted session passed the admin check.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyIsAdmin)
}
