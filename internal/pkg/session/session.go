package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/handywriterz/core/internal/models"
	"gorm.io/gorm"
)

const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned when revoking a session that is missing or already revoked.
var ErrNotFound = errors.New("session: not found")

// Store persists revocable sessions for one identity provider.
type Store struct {
	db       *gorm.DB
	provider models.Provider
	now      func() time.Time
}

// NewStore creates a session store scoped to provider.
func NewStore(db *gorm.DB, provider models.Provider) *Store {
	return &Store{db: db, provider: provider, now: time.Now}
}

// Issue creates a session row. The caller signs a token bound to the returned ID.
func (s *Store) Issue(ctx context.Context, userID, ip, ua string, ttl time.Duration) (*models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	row := &models.UserSession{
		UserID:    userID,
		Provider:  s.provider,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Discard removes a session that could not be handed out.
func (s *Store) Discard(ctx context.Context, id string) {
	_ = s.db.WithContext(ctx).Delete(&models.UserSession{}, "id = ?", id).Error
}

// IsActive reports whether the session exists, belongs to userID and is neither revoked nor expired.
func (s *Store) IsActive(ctx context.Context, userID, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND provider = ? AND revoked_at IS NULL AND expires_at > ?",
			sessionID, userID, s.provider, s.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive returns the active sessions of a user, most recent first.
func (s *Store) ListActive(ctx context.Context, userID string) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND revoked_at IS NULL AND expires_at > ?", userID, s.provider, s.now()).
		Order("updated_at DESC, created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// Revoke marks a session as revoked.
func (s *Store) Revoke(ctx context.Context, userID, sessionID string) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND provider = ? AND revoked_at IS NULL", sessionID, userID, s.provider).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAll revokes every active session of a user.
func (s *Store) RevokeAll(ctx context.Context, userID string) error {
	now := s.now()
	return s.db.WithContext(ctx).Model(&models.UserSession{}).
		Where("user_id = ? AND provider = ? AND revoked_at IS NULL", userID, s.provider).
		Update("revoked_at", &now).Error
}

// PurgeExpired deletes expired or revoked sessions of every provider older than the cutoff.
func PurgeExpired(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}
