package user

import (
	"context"
	"errors"
	"strings"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	sessionpkg "github.com/handywriterz/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChangeHook is told when an account's identity data changes or it is removed.
type ChangeHook func(provider models.Provider, userID string)

// Service manages accounts of both identity providers.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	hooks []ChangeHook
	cost  int
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithChangeHook registers fn to run after role changes and deletions.
func WithChangeHook(fn ChangeHook) Option {
	return func(s *Service) { s.hooks = append(s.hooks, fn) }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create hashes the password and stores a new account.
func (s *Service) Create(ctx context.Context, dto *CreateUserDTO) (*models.UserModel, error) {
	if dto.Provider == "" {
		dto.Provider = models.ProviderSite
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.cost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = dto.Username
	}
	u := &models.UserModel{
		Username: strings.TrimSpace(dto.Username),
		Email:    normalizeEmail(dto.Email),
		Name:     name,
		Password: string(hash),
		Provider: dto.Provider,
	}
	if dto.Role != "" {
		u.Metadata = datatypes.JSONMap{"role": dto.Role}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("provider = ? AND username = ?", u.Provider, u.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// List returns a page of accounts, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.UserModel{}).Order("created_at DESC")
	if lq.Provider != "" {
		tx = tx.Where("provider = ?", lq.Provider)
	}
	if search := strings.TrimSpace(lq.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?)", like, like, like)
	}
	var users []models.UserModel
	pag, err := pagination.Paginate(tx, q, &users)
	return users, pag, err
}

// GetByID fetches an account. Returns (nil, nil) when missing.
func (s *Service) GetByID(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UpdateRole stores role in a site account's metadata.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*models.UserModel, error) {
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	u, err := s.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if u.Provider == models.ProviderAdmin {
		return nil, ErrRoleFixed
	}

	metadata := datatypes.JSONMap{}
	for k, v := range u.Metadata {
		metadata[k] = v
	}
	metadata["role"] = role
	if err := s.db.WithContext(ctx).Model(u).Update("metadata", metadata).Error; err != nil {
		return nil, err
	}
	u.Metadata = metadata
	s.notify(u.Provider, u.ID)
	return u, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, id, oldPwd, newPwd string) error {
	var u models.UserModel
	if err := s.db.WithContext(ctx).Select("id, password").First(&u, "id = ?", id).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPwd)); err != nil {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(newPwd)); err == nil {
		return ErrPasswordSameAsOld
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), s.cost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&u).Update("password", string(hash)).Error
}

// Delete removes an account and revokes its sessions.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	if err := sessionpkg.NewStore(s.db, u.Provider).RevokeAll(ctx, u.ID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(u).Error; err != nil {
		return err
	}
	s.notify(u.Provider, u.ID)
	return nil
}

// Sessions lists the active sessions of an account.
func (s *Service) Sessions(ctx context.Context, provider models.Provider, userID string) ([]models.UserSession, error) {
	return sessionpkg.NewStore(s.db, provider).ListActive(ctx, userID)
}

// RevokeSession ends one session of an account.
func (s *Service) RevokeSession(ctx context.Context, provider models.Provider, userID, sessionID string) error {
	if err := sessionpkg.NewStore(s.db, provider).Revoke(ctx, userID, sessionID); err != nil {
		return err
	}
	s.notify(provider, userID)
	return nil
}

func (s *Service) notify(provider models.Provider, userID string) {
	for _, fn := range s.hooks {
		fn(provider, userID)
	}
}
