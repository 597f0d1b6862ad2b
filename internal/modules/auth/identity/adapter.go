package identity

import (
	"context"
	"errors"
	"time"

	"github.com/handywriterz/core/internal/models"
	"go.uber.org/zap"
)

// Adapter evaluates an ordered list of providers and answers identity
// questions with the first provider that can.
type Adapter struct {
	providers []Provider
	log       *zap.Logger
	cache     *sessionCache
}

type Option func(*Adapter)

func WithLogger(l *zap.Logger) Option { return func(a *Adapter) { a.log = l } }

// WithSessionCache memoizes validated sessions for ttl. now may be nil.
func WithSessionCache(ttl time.Duration, now func() time.Time) Option {
	return func(a *Adapter) {
		if ttl > 0 {
			a.cache = newSessionCache(ttl, now)
		}
	}
}

// NewAdapter wires providers in priority order and subscribes to their session events.
func NewAdapter(providers []Provider, opts ...Option) *Adapter {
	a := &Adapter{providers: providers, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	for _, p := range providers {
		p.OnSessionChange(a.handleEvent)
	}
	return a
}

// Providers returns the providers in evaluation order.
func (a *Adapter) Providers() []Provider { return a.providers }

// Provider returns the provider registered under name.
func (a *Adapter) Provider(name models.Provider) (Provider, error) {
	for _, p := range a.providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, ErrUnknownProvider
}

// IsAuthenticated reports whether any provider holds a valid session.
func (a *Adapter) IsAuthenticated(ctx context.Context, creds Credentials) bool {
	for _, p := range a.providers {
		if s := a.session(ctx, p, creds); s != nil {
			return true
		}
	}
	return false
}

// IsAdmin reports whether any provider grants admin, stopping at the first that does.
func (a *Adapter) IsAdmin(ctx context.Context, creds Credentials) bool {
	for _, p := range a.providers {
		if s := a.session(ctx, p, creds); s != nil && p.IsAdmin(s) {
			return true
		}
	}
	return false
}

// CurrentUser returns the user of the first provider holding a session, or nil.
func (a *Adapter) CurrentUser(ctx context.Context, creds Credentials) *User {
	if s := a.Resolve(ctx, creds); s != nil {
		u := s.User
		return &u
	}
	return nil
}

// Resolve returns the first valid session in provider order, or nil.
func (a *Adapter) Resolve(ctx context.Context, creds Credentials) *Session {
	for _, p := range a.providers {
		if s := a.session(ctx, p, creds); s != nil {
			return s
		}
	}
	return nil
}

// Access resolves the session and the admin decision in one pass.
func (a *Adapter) Access(ctx context.Context, creds Credentials) (*Session, bool) {
	var first *Session
	for _, p := range a.providers {
		s := a.session(ctx, p, creds)
		if s == nil {
			continue
		}
		if p.IsAdmin(s) {
			return s, true
		}
		if first == nil {
			first = s
		}
	}
	return first, false
}

// SignIn authenticates against the named provider.
func (a *Adapter) SignIn(ctx context.Context, name models.Provider, req SignInRequest) (*Session, error) {
	p, err := a.Provider(name)
	if err != nil {
		return nil, err
	}
	return p.SignIn(ctx, req)
}

// SignOut ends the session of every provider that holds a credential.
// All providers are attempted; the joined error reports every failure.
func (a *Adapter) SignOut(ctx context.Context, creds Credentials) error {
	var errs []error
	for _, p := range a.providers {
		if !p.HasCredential(creds) {
			continue
		}
		if err := p.SignOut(ctx, creds); err != nil {
			a.log.Warn("provider sign-out failed", zap.String("provider", string(p.Name())), zap.Error(err))
			errs = append(errs, err)
		}
		if a.cache != nil {
			a.cache.dropToken(p.Name(), creds.For(p.Name()))
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) session(ctx context.Context, p Provider, creds Credentials) *Session {
	token := creds.For(p.Name())
	if a.cache != nil && token != "" {
		if s, ok := a.cache.get(p.Name(), token); ok {
			return s
		}
	}
	s, err := p.Session(ctx, creds)
	if err != nil {
		a.log.Warn("session lookup failed", zap.String("provider", string(p.Name())), zap.Error(err))
		return nil
	}
	if s != nil && a.cache != nil && token != "" {
		a.cache.put(p.Name(), token, s)
	}
	return s
}

func (a *Adapter) handleEvent(e Event) {
	if a.cache == nil {
		return
	}
	switch {
	case e.Token != "":
		a.cache.dropToken(e.Provider, e.Token)
	case e.UserID != "":
		a.cache.dropUser(e.Provider, e.UserID)
	}
}
