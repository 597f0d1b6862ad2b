package category

import (
	"context"
	"errors"
	"strings"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/cache"
	"github.com/handywriterz/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cachePrefix = "categories:"

var (
	ErrSlugTaken = errors.New("a category with this slug already exists in the service")
	ErrEmptySlug = errors.New("category name must contain letters or digits")
)

type CreateCategoryDTO struct {
	Name        string `json:"name"        binding:"required"`
	Service     string `json:"service"     binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name"`
	Service     *string `json:"service"`
	Description *string `json:"description"`
}

type Service struct {
	db    *gorm.DB
	cache cache.Cache
	log   *zap.Logger
}

type Option func(*Service)

func WithCache(c cache.Cache) Option { return func(s *Service) { s.cache = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, cache: cache.Nop{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the categories of service, or every category when service is empty.
func (s *Service) List(ctx context.Context, service string) ([]models.CategoryModel, error) {
	return cache.Fetch(ctx, s.cache, cachePrefix+"list:"+service, func() ([]models.CategoryModel, error) {
		tx := s.db.WithContext(ctx).Order("service ASC, name ASC")
		if service != "" {
			tx = tx.Where("service = ?", service)
		}
		cats := []models.CategoryModel{}
		return cats, tx.Find(&cats).Error
	})
}

// Lookup finds a category of service by name or slug. Returns (nil, nil) when missing.
func (s *Service) Lookup(ctx context.Context, service, nameOrSlug string) (*models.CategoryModel, error) {
	cats, err := s.List(ctx, service)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Name == nameOrSlug || cats[i].Slug == nameOrSlug {
			return &cats[i], nil
		}
	}
	return nil, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	cat := models.CategoryModel{
		Name:        strings.TrimSpace(dto.Name),
		Slug:        slug.FromName(dto.Name),
		Service:     strings.TrimSpace(dto.Service),
		Description: dto.Description,
	}
	if strings.Trim(cat.Slug, "-") == "" {
		return nil, ErrEmptySlug
	}
	if err := s.ensureSlugFree(ctx, cat.Service, cat.Slug, ""); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	return &cat, nil
}

// Update patches a category. Renaming re-derives the slug.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(ctx, id)
	if err != nil || cat == nil {
		return cat, err
	}

	updates := map[string]interface{}{}
	name, service, catSlug := cat.Name, cat.Service, cat.Slug
	if dto.Name != nil {
		name = strings.TrimSpace(*dto.Name)
		catSlug = slug.FromName(name)
		if strings.Trim(catSlug, "-") == "" {
			return nil, ErrEmptySlug
		}
		updates["name"] = name
		updates["slug"] = catSlug
	}
	if dto.Service != nil {
		service = strings.TrimSpace(*dto.Service)
		updates["service"] = service
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if service != cat.Service || catSlug != cat.Slug {
		if err := s.ensureSlugFree(ctx, service, catSlug, cat.ID); err != nil {
			return nil, err
		}
	}

	oldName := cat.Name
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cat).Updates(updates).Error; err != nil {
			return err
		}
		// posts reference categories by name
		if name != oldName {
			return tx.Model(&models.PostModel{}).
				Where("service = ? AND category = ?", service, oldName).
				Update("category", name).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

// Delete removes a category and detaches its posts.
func (s *Service) Delete(ctx context.Context, id string) error {
	cat, err := s.GetByID(ctx, id)
	if err != nil || cat == nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).
			Where("service = ? AND category = ?", cat.Service, cat.Name).
			Update("category", "").Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, service, catSlug, exceptID string) error {
	tx := s.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("service = ? AND slug = ?", service, catSlug)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cachePrefix); err != nil {
		s.log.Warn("category cache invalidation failed", zap.Error(err))
	}
}
