package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/cache"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const cachePrefix = "posts:"

// ErrSlugTaken is returned when another post of the same service already uses the slug.
var ErrSlugTaken = errors.New("slug already exists in this service")

// Service handles post persistence.
type Service struct {
	db    *gorm.DB
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Service)

// WithCache caches public reads and invalidates them on every write.
func WithCache(c cache.Cache) Option { return func(s *Service) { s.cache = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock overrides the time source used for publish timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, cache: cache.Nop{}, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type page struct {
	Items      []models.PostModel  `json:"items"`
	Pagination response.Pagination `json:"pagination"`
}

// List returns a page of posts matching f, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, f ListFilter) ([]models.PostModel, response.Pagination, error) {
	load := func() (page, error) {
		tx := s.db.WithContext(ctx).Model(&models.PostModel{}).Order("created_at DESC")
		if f.PublishedOnly {
			tx = tx.Where("status = ?", models.PostPublished)
		} else if f.Status != "" {
			tx = tx.Where("status = ?", f.Status)
		}
		if f.Service != "" {
			tx = tx.Where("service = ?", f.Service)
		}
		if f.Category != "" {
			tx = tx.Where("category = ?", f.Category)
		}
		if f.Tag != "" {
			tx = s.whereTag(tx, f.Tag)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?)", like, like)
		}

		var posts []models.PostModel
		pag, err := pagination.Paginate(tx, q, &posts)
		return page{Items: posts, Pagination: pag}, err
	}

	var (
		p   page
		err error
	)
	if f.PublishedOnly {
		key := fmt.Sprintf("%slist:%s|%s|%s|%s|%d|%d", cachePrefix, f.Service, f.Category, f.Tag, f.Search, q.Page, q.Size)
		p, err = cache.Fetch(ctx, s.cache, key, load)
	} else {
		p, err = load()
	}
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return p.Items, p.Pagination, nil
}

// Get fetches a post by ID. Returns (nil, nil) when missing.
func (s *Service) Get(ctx context.Context, id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPublished fetches a published post by service and slug.
func (s *Service) GetPublished(ctx context.Context, service, slug string) (*models.PostModel, error) {
	key := cachePrefix + "slug:" + service + "/" + slug
	post, err := cache.Fetch(ctx, s.cache, key, func() (*models.PostModel, error) {
		var post models.PostModel
		err := s.db.WithContext(ctx).
			Where("service = ? AND slug = ? AND status = ?", service, slug, models.PostPublished).
			First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &post, nil
	})
	return post, err
}

// Create inserts a new post and assigns its ID.
func (s *Service) Create(ctx context.Context, post *models.PostModel) (*models.PostModel, error) {
	if err := s.ensureSlugFree(ctx, post.Service, post.Slug, ""); err != nil {
		return nil, err
	}
	if post.Status == "" {
		post.Status = models.PostDraft
	}
	if post.BodyKind == "" {
		post.BodyKind = models.BodyMarkdown
	}
	if post.Status == models.PostPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	return post, nil
}

// Update patches a post by ID. Returns (nil, nil) when missing.
func (s *Service) Update(ctx context.Context, id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.Get(ctx, id)
	if err != nil || post == nil {
		return post, err
	}

	service, slug := post.Service, post.Slug
	if dto.Service != nil {
		service = *dto.Service
	}
	if dto.Slug != nil {
		slug = *dto.Slug
	}
	if service != post.Service || slug != post.Slug {
		if err := s.ensureSlugFree(ctx, service, slug, post.ID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("title", dto.Title)
	setString("slug", dto.Slug)
	setString("excerpt", dto.Excerpt)
	setString("service", dto.Service)
	setString("category", dto.Category)
	setString("featured_image", dto.FeaturedImage)
	setString("media_url", dto.MediaURL)
	setString("content", dto.Content)
	setString("seo_title", dto.SEOTitle)
	setString("seo_description", dto.SEODescription)
	if dto.Status != nil {
		updates["status"] = *dto.Status
		if *dto.Status == models.PostPublished && post.PublishedAt == nil && dto.PublishedAt == nil {
			now := s.now()
			updates["published_at"] = &now
		}
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}
	if dto.MediaType != nil {
		updates["media_type"] = *dto.MediaType
	}
	if dto.BodyKind != nil {
		updates["body_kind"] = *dto.BodyKind
	}
	if dto.ContentBlocks != nil {
		updates["content_blocks"] = datatypes.NewJSONSlice(dto.ContentBlocks)
	}
	if dto.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(dto.Tags)
	}
	if dto.SEOKeywords != nil {
		updates["seo_keywords"] = datatypes.NewJSONSlice(dto.SEOKeywords)
	}
	if dto.ClearSchedule {
		updates["scheduled_for"] = nil
	} else if dto.ScheduledFor != nil {
		updates["scheduled_for"] = dto.ScheduledFor
	}
	if dto.PublishedAt != nil {
		updates["published_at"] = dto.PublishedAt
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSlugTaken
			}
			return nil, err
		}
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// SetStatus moves a post to status, stamping published_at on first publish.
func (s *Service) SetStatus(ctx context.Context, id string, status models.PostStatus) (*models.PostModel, error) {
	return s.Update(ctx, id, &UpdatePostDTO{Status: &status})
}

// Delete removes a post by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.PostModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// PublishDue publishes every scheduled post whose scheduled_for has passed.
func (s *Service) PublishDue(ctx context.Context) (int64, error) {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?", models.PostScheduled, now).
		Updates(map[string]interface{}{
			"status":       models.PostPublished,
			"published_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("published scheduled posts", zap.Int64("count", res.RowsAffected))
		s.invalidate(ctx)
	}
	return res.RowsAffected, nil
}

// whereTag matches posts whose JSON tags array contains tag.
func (s *Service) whereTag(tx *gorm.DB, tag string) *gorm.DB {
	quoted := fmt.Sprintf("%q", tag)
	switch s.db.Dialector.Name() {
	case "mysql":
		return tx.Where("JSON_CONTAINS(tags, ?)", quoted)
	case "postgres":
		return tx.Where("tags @> ?::jsonb", "["+quoted+"]")
	default:
		return tx.Where("tags LIKE ?", "%"+quoted+"%")
	}
}

func (s *Service) ensureSlugFree(ctx context.Context, service, slug, exceptID string) error {
	tx := s.db.WithContext(ctx).Model(&models.PostModel{}).Where("service = ? AND slug = ?", service, slug)
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
		s.log.Warn("post cache invalidation failed", zap.Error(err))
	}
}
