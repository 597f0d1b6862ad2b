package post

import (
	"time"

	"github.com/handywriterz/core/internal/models"
)

// UpdatePostDTO patches a post; nil fields are left unchanged.
type UpdatePostDTO struct {
	Title          *string               `json:"title"`
	Slug           *string               `json:"slug"`
	Excerpt        *string               `json:"excerpt"`
	Status         *models.PostStatus    `json:"status"`
	Service        *string               `json:"service"`
	Category       *string               `json:"category"`
	Featured       *bool                 `json:"featured"`
	FeaturedImage  *string               `json:"featuredImage"`
	MediaType      *models.MediaType     `json:"mediaType"`
	MediaURL       *string               `json:"mediaUrl"`
	BodyKind       *models.BodyKind      `json:"bodyKind"`
	Content        *string               `json:"content"`
	ContentBlocks  []models.ContentBlock `json:"contentBlocks"`
	Tags           []string              `json:"tags"`
	SEOTitle       *string               `json:"seoTitle"`
	SEODescription *string               `json:"seoDescription"`
	SEOKeywords    []string              `json:"seoKeywords"`
	ScheduledFor   *time.Time            `json:"scheduledFor"`
	PublishedAt    *time.Time            `json:"publishedAt"`

	// ClearSchedule resets scheduled_for to NULL and wins over ScheduledFor.
	ClearSchedule bool `json:"-"`
}

// StatusDTO is the body of PATCH /admin/posts/:id/status.
type StatusDTO struct {
	Status models.PostStatus `json:"status" binding:"required"`
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Service  string `form:"service"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ListFilter narrows a post listing. PublishedOnly restricts to published posts.
type ListFilter struct {
	Service       string
	Category      string
	Tag           string
	Search        string
	Status        models.PostStatus
	PublishedOnly bool
}

// postResponse is the API response shape for a post.
type postResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Slug           string                `json:"slug"`
	Excerpt        string                `json:"excerpt"`
	Status         models.PostStatus     `json:"status"`
	Service        string                `json:"service"`
	Category       string                `json:"category"`
	Featured       bool                  `json:"featured"`
	FeaturedImage  string                `json:"featuredImage"`
	MediaType      models.MediaType      `json:"mediaType"`
	MediaURL       string                `json:"mediaUrl"`
	BodyKind       models.BodyKind       `json:"bodyKind"`
	Content        string                `json:"content"`
	ContentBlocks  []models.ContentBlock `json:"contentBlocks"`
	Tags           []string              `json:"tags"`
	SEOTitle       string                `json:"seoTitle"`
	SEODescription string                `json:"seoDescription"`
	SEOKeywords    []string              `json:"seoKeywords"`
	AuthorID       *string               `json:"authorId"`
	ScheduledFor   *time.Time            `json:"scheduledFor"`
	PublishedAt    *time.Time            `json:"publishedAt"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func toResponse(p *models.PostModel) postResponse {
	blocks := []models.ContentBlock(p.ContentBlocks)
	if blocks == nil {
		blocks = []models.ContentBlock{}
	}
	return postResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Status:         p.Status,
		Service:        p.Service,
		Category:       p.Category,
		Featured:       p.Featured,
		FeaturedImage:  p.FeaturedImage,
		MediaType:      p.MediaType,
		MediaURL:       p.MediaURL,
		BodyKind:       p.BodyKind,
		Content:        p.Content,
		ContentBlocks:  blocks,
		Tags:           nonNil(p.Tags),
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		SEOKeywords:    nonNil(p.SEOKeywords),
		AuthorID:       p.AuthorID,
		ScheduledFor:   p.ScheduledFor,
		PublishedAt:    p.PublishedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toResponses(posts []models.PostModel) []postResponse {
	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toResponse(&posts[i])
	}
	return items
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
