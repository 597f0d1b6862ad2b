// Package identity answers "who is signed in and may they administer the site"
// over an ordered list of independent session providers.
package identity

import (
	"context"
	"errors"

	"github.com/handywriterz/core/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownProvider    = errors.New("unknown identity provider")
)

// User is the provider-independent view of a signed-in account.
type User struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     string          `json:"role"`
	Avatar   string          `json:"avatar"`
	Provider models.Provider `json:"provider"`
}

// Credentials are the raw session tokens a request carries, one slot per provider.
type Credentials struct {
	AdminToken string
	SiteToken  string
}

// For returns the token carried for provider.
func (c Credentials) For(provider models.Provider) string {
	switch provider {
	case models.ProviderAdmin:
		return c.AdminToken
	case models.ProviderSite:
		return c.SiteToken
	}
	return ""
}

// Session is a server-validated session of one provider.
type Session struct {
	Provider  models.Provider `json:"provider"`
	Token     string          `json:"-"`
	SessionID string          `json:"-"`
	User      User            `json:"user"`
}

type EventKind string

const (
	EventSignedIn    EventKind = "signed-in"
	EventSignedOut   EventKind = "signed-out"
	EventUserChanged EventKind = "user-changed"
)

// Event is pushed by a provider whenever one of its sessions changes.
type Event struct {
	Kind     EventKind
	Provider models.Provider
	UserID   string
	Token    string // empty when every session of UserID is affected
}

// Provider is one identity system.
type Provider interface {
	Name() models.Provider
	// Session returns the validated session for creds, or nil when the provider has none.
	Session(ctx context.Context, creds Credentials) (*Session, error)
	// IsAdmin applies the provider's admin policy to a validated session.
	IsAdmin(s *Session) bool
	SignIn(ctx context.Context, req SignInRequest) (*Session, error)
	// HasCredential reports whether creds carry any state for this provider.
	HasCredential(creds Credentials) bool
	SignOut(ctx context.Context, creds Credentials) error
	OnSessionChange(fn func(Event))
}

// SignInRequest carries password credentials plus request metadata for the session row.
type SignInRequest struct {
	Identifier string // email or username
	Password   string
	IP         string
	UserAgent  string
}
