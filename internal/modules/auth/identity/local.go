package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/jwt"
	"github.com/handywriterz/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash keeps sign-in timing similar for unknown accounts.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("handywriterz"), bcrypt.MinCost)

// LocalProvider validates password accounts stored in the users table for one provider.
type LocalProvider struct {
	name     models.Provider
	db       *gorm.DB
	signer   *jwt.Signer
	sessions *session.Store
	ttl      time.Duration
	isAdmin  func(u User) bool
	log      *zap.Logger

	mu        sync.RWMutex
	listeners []func(Event)
}

// NewAdminProvider builds the back-office provider. Every valid session is an admin session.
func NewAdminProvider(db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger) (*LocalProvider, error) {
	return newLocalProvider(models.ProviderAdmin, db, secret, ttl, log, func(User) bool { return true })
}

// NewSiteProvider builds the public site provider. A session is admin only when
// the account's metadata role is "admin".
func NewSiteProvider(db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger) (*LocalProvider, error) {
	return newLocalProvider(models.ProviderSite, db, secret, ttl, log, func(u User) bool { return u.Role == models.RoleAdmin })
}

func newLocalProvider(name models.Provider, db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger, isAdmin func(User) bool) (*LocalProvider, error) {
	signer, err := jwt.NewSigner(secret, string(name))
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", name, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalProvider{
		name:     name,
		db:       db,
		signer:   signer,
		sessions: session.NewStore(db, name),
		ttl:      ttl,
		isAdmin:  isAdmin,
		log:      log.With(zap.String("provider", string(name))),
	}, nil
}

func (p *LocalProvider) Name() models.Provider { return p.name }

func (p *LocalProvider) IsAdmin(s *Session) bool {
	return s != nil && s.Provider == p.name && p.isAdmin(s.User)
}

func (p *LocalProvider) HasCredential(creds Credentials) bool {
	return strings.TrimSpace(creds.For(p.name)) != ""
}

func (p *LocalProvider) Session(ctx context.Context, creds Credentials) (*Session, error) {
	token := strings.TrimSpace(creds.For(p.name))
	if token == "" {
		return nil, nil
	}
	claims, err := p.signer.Parse(token)
	if err != nil {
		return nil, nil
	}
	active, err := p.sessions.IsActive(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, nil
	}
	u, err := p.findUser(ctx, "id = ?", claims.UserID)
	if err != nil || u == nil {
		return nil, err
	}
	return &Session{Provider: p.name, Token: token, SessionID: claims.SessionID, User: p.toUser(u)}, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, req SignInRequest) (*Session, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := p.findUser(ctx, "(username = ? OR email = ?)", identifier, strings.ToLower(identifier))
	if err != nil {
		return nil, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	row, err := p.sessions.Issue(ctx, u.ID, req.IP, req.UserAgent, p.ttl)
	if err != nil {
		return nil, err
	}
	token, err := p.signer.Sign(u.ID, row.ID, time.Until(row.ExpiresAt))
	if err != nil {
		p.sessions.Discard(ctx, row.ID)
		return nil, err
	}

	now := time.Now()
	if err := p.db.WithContext(ctx).Model(u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   req.IP,
	}).Error; err != nil {
		p.log.Warn("record last login failed", zap.String("user", u.ID), zap.Error(err))
	}

	s := &Session{Provider: p.name, Token: token, SessionID: row.ID, User: p.toUser(u)}
	p.emit(Event{Kind: EventSignedIn, Provider: p.name, UserID: u.ID, Token: token})
	return s, nil
}

// SignOut revokes the session behind the carried token. Invalid or expired
// tokens have no server state left and are ignored.
func (p *LocalProvider) SignOut(ctx context.Context, creds Credentials) error {
	token := strings.TrimSpace(creds.For(p.name))
	if token == "" {
		return nil
	}
	claims, err := p.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := p.sessions.Revoke(ctx, claims.UserID, claims.SessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}
	p.emit(Event{Kind: EventSignedOut, Provider: p.name, UserID: claims.UserID, Token: token})
	return nil
}

// NotifyUserChanged tells listeners that cached sessions of userID are stale,
// e.g. after a role change.
func (p *LocalProvider) NotifyUserChanged(userID string) {
	p.emit(Event{Kind: EventUserChanged, Provider: p.name, UserID: userID})
}

// RevokeUser ends every session of userID.
func (p *LocalProvider) RevokeUser(ctx context.Context, userID string) error {
	if err := p.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	p.emit(Event{Kind: EventSignedOut, Provider: p.name, UserID: userID})
	return nil
}

func (p *LocalProvider) OnSessionChange(fn func(Event)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *LocalProvider) emit(e Event) {
	p.mu.RLock()
	listeners := append([]func(Event){}, p.listeners...)
	p.mu.RUnlock()
	for _, fn := range listeners {
		fn(e)
	}
}

func (p *LocalProvider) findUser(ctx context.Context, query string, args ...interface{}) (*models.UserModel, error) {
	var u models.UserModel
	err := p.db.WithContext(ctx).
		Where("provider = ?", p.name).
		Where(query, args...).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *LocalProvider) toUser(u *models.UserModel) User {
	role := u.Role()
	if role == "" {
		role = models.RoleUser
		if p.name == models.ProviderAdmin {
			role = models.RoleAdmin
		}
	}
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return User{ID: u.ID, Email: u.Email, Name: name, Role: role, Avatar: u.Avatar, Provider: p.name}
}
