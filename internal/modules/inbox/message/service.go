package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEmptyReply = errors.New("reply body is required")

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send stores a new top-level message.
func (s *Service) Send(ctx context.Context, dto *SendDTO, senderID string) (*models.MessageModel, error) {
	dto.normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	m := &models.MessageModel{Name: dto.Name, Email: dto.Email, Subject: dto.Subject, Body: dto.Body}
	if senderID != "" {
		m.SenderID = &senderID
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// List returns a page of top-level messages, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.MessageModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("parent_id IS NULL").
		Order("created_at DESC")
	if lq.Unread {
		tx = tx.Where("read_at IS NULL")
	}
	var ms []models.MessageModel
	pag, err := pagination.Paginate(tx, q, &ms)
	return ms, pag, err
}

// UnreadCount counts top-level messages no admin has read.
func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("parent_id IS NULL AND read_at IS NULL").
		Count(&n).Error
	return n, err
}

// Get fetches a message by ID. Returns (nil, nil) when missing.
func (s *Service) Get(ctx context.Context, id string) (*models.MessageModel, error) {
	var m models.MessageModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Thread returns a message and its replies in order.
func (s *Service) Thread(ctx context.Context, id string) (*models.MessageModel, []models.MessageModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil || m == nil {
		return m, nil, err
	}
	var replies []models.MessageModel
	if err := s.db.WithContext(ctx).Where("parent_id = ?", id).Order("created_at ASC").Find(&replies).Error; err != nil {
		return nil, nil, err
	}
	return m, replies, nil
}

// MarkRead stamps read_at once. Returns (nil, nil) when missing.
func (s *Service) MarkRead(ctx context.Context, id string) (*models.MessageModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil || m == nil || m.ReadAt != nil {
		return m, err
	}
	now := s.now()
	if err := s.db.WithContext(ctx).Model(m).Update("read_at", &now).Error; err != nil {
		return nil, err
	}
	m.ReadAt = &now
	return m, nil
}

// Reply adds an admin reply to a top-level message and marks it read.
// Replies to a reply attach to the thread root.
func (s *Service) Reply(ctx context.Context, id, body, adminName string) (*models.MessageModel, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyReply
	}
	parent, err := s.Get(ctx, id)
	if err != nil || parent == nil {
		return nil, err
	}
	rootID := parent.ID
	if parent.ParentID != nil {
		rootID = *parent.ParentID
	}

	reply := &models.MessageModel{
		Name:      adminName,
		Email:     parent.Email,
		Subject:   replySubject(parent.Subject),
		Body:      body,
		ParentID:  &rootID,
		FromAdmin: true,
	}
	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.MessageModel{}).
			Where("id = ? AND read_at IS NULL", rootID).
			Update("read_at", &now).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("message replied", zap.String("thread", rootID))
	return reply, nil
}

// Delete removes a message and its replies.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", id, id).
		Delete(&models.MessageModel{}).Error
}

func replySubject(subject string) string {
	if subject == "" || strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
