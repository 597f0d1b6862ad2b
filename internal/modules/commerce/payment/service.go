// Package payment records site checkouts. No money moves: the payment step is
// simulated and only its outcome is stored.
package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotPending   = errors.New("payment is no longer pending")
	ErrNotCompleted = errors.New("only completed payments can be refunded")
)

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

// Checkout validates dto and records a pending payment.
func (s *Service) Checkout(ctx context.Context, dto *CheckoutDTO, userID string) (*models.PaymentModel, error) {
	dto.normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	p := &models.PaymentModel{
		Email:       dto.Email,
		Service:     dto.Service,
		Description: strings.TrimSpace(dto.Description),
		Amount:      dto.Amount,
		Currency:    dto.Currency,
		Method:      dto.Method,
		Status:      models.PaymentPending,
		Reference:   newReference(),
	}
	if userID != "" {
		p.UserID = &userID
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	s.log.Info("checkout started", zap.String("reference", p.Reference), zap.String("service", p.Service))
	return p, nil
}

// Confirm settles a pending payment. Returns (nil, nil) when missing.
func (s *Service) Confirm(ctx context.Context, id string, success bool) (*models.PaymentModel, error) {
	updates := map[string]interface{}{"status": models.PaymentFailed}
	if success {
		now := s.now()
		updates["status"] = models.PaymentCompleted
		updates["completed_at"] = &now
	}
	return s.transition(ctx, id, models.PaymentPending, ErrNotPending, updates)
}

// Refund marks a completed payment refunded.
func (s *Service) Refund(ctx context.Context, id string) (*models.PaymentModel, error) {
	return s.transition(ctx, id, models.PaymentCompleted, ErrNotCompleted, map[string]interface{}{
		"status": models.PaymentRefunded,
	})
}

func (s *Service) transition(ctx context.Context, id string, from models.PaymentStatus, errWrongState error, updates map[string]interface{}) (*models.PaymentModel, error) {
	p, err := s.Get(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	res := s.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errWrongState
	}
	return s.Get(ctx, id)
}

// Get fetches a payment by ID. Returns (nil, nil) when missing.
func (s *Service) Get(ctx context.Context, id string) (*models.PaymentModel, error) {
	var p models.PaymentModel
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns a page of payments, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.PaymentModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.PaymentModel{}).Order("created_at DESC")
	if lq.Status != "" {
		tx = tx.Where("status = ?", lq.Status)
	}
	if lq.Email != "" {
		tx = tx.Where("email = ?", strings.ToLower(strings.TrimSpace(lq.Email)))
	}
	var ps []models.PaymentModel
	pag, err := pagination.Paginate(tx, q, &ps)
	return ps, pag, err
}

func newReference() string {
	return "HW-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
