package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SiteTokenHeader carries the site provider token for non-browser clients.
const SiteTokenHeader = "X-Site-Token"

// CookieNames names the cookies each provider's token is stored in.
type CookieNames struct {
	Admin string
	Site  string
}

// FromRequest collects provider credentials from headers and cookies.
// The Authorization header wins over the admin cookie.
func FromRequest(c *gin.Context, cookies CookieNames) Credentials {
	creds := Credentials{
		AdminToken: normalizeToken(c.GetHeader("Authorization")),
		SiteToken:  strings.TrimSpace(c.GetHeader(SiteTokenHeader)),
	}
	if creds.AdminToken == "" && cookies.Admin != "" {
		if v, err := c.Cookie(cookies.Admin); err == nil {
			creds.AdminToken = strings.TrimSpace(v)
		}
	}
	if creds.SiteToken == "" && cookies.Site != "" {
		if v, err := c.Cookie(cookies.Site); err == nil {
			creds.SiteToken = strings.TrimSpace(v)
		}
	}
	return creds
}

// normalizeToken trims spaces and strips an optional Bearer prefix.
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
