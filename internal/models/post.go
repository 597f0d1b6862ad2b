package models

import (
	"time"

	"gorm.io/datatypes"
)

// PostStatus is the publication lifecycle of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostScheduled PostStatus = "scheduled"
	PostArchived  PostStatus = "archived"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostScheduled, PostArchived:
		return true
	}
	return false
}

// MediaType classifies the post's primary media attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

func (m MediaType) Valid() bool {
	switch m {
	case MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// BodyKind names which body representation of a post is authoritative.
type BodyKind string

const (
	BodyMarkdown BodyKind = "markdown"
	BodyBlocks   BodyKind = "blocks"
)

// BlockType discriminates content blocks.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeading BlockType = "heading"
	BlockImage   BlockType = "image"
	BlockVideo   BlockType = "video"
	BlockCode    BlockType = "code"
	BlockQuote   BlockType = "quote"
	BlockList    BlockType = "list"
	BlockDivider BlockType = "divider"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockHeading, BlockImage, BlockVideo, BlockCode, BlockQuote, BlockList, BlockDivider:
		return true
	}
	return false
}

// ContentBlock is one ordered unit of a post body in blocks mode.
// Only the fields relevant to Type are meaningful.
type ContentBlock struct {
	Type     BlockType `json:"type"`
	Content  string    `json:"content,omitempty"`
	Level    int       `json:"level,omitempty"`    // heading
	URL      string    `json:"url,omitempty"`      // image, video
	Caption  string    `json:"caption,omitempty"`  // image, video, quote attribution
	Language string    `json:"language,omitempty"` // code
}

// PostModel is a piece of site content authored in the admin editor.
// Exactly one of Content or ContentBlocks is authoritative, selected by BodyKind.
type PostModel struct {
	Base
	Title          string                            `json:"title"          gorm:"size:255;not null"`
	Slug           string                            `json:"slug"           gorm:"size:191;not null;uniqueIndex:idx_posts_service_slug"`
	Excerpt        string                            `json:"excerpt"        gorm:"type:text"`
	Status         PostStatus                        `json:"status"         gorm:"size:16;not null;default:draft;index"`
	Service        string                            `json:"service"        gorm:"size:64;not null;uniqueIndex:idx_posts_service_slug;index"`
	Category       string                            `json:"category"       gorm:"size:128;index"`
	Featured       bool                              `json:"featured"       gorm:"default:false"`
	FeaturedImage  string                            `json:"featuredImage"  gorm:"size:1024"`
	MediaType      MediaType                         `json:"mediaType"      gorm:"size:16"`
	MediaURL       string                            `json:"mediaUrl"       gorm:"size:1024"`
	BodyKind       BodyKind                          `json:"bodyKind"       gorm:"size:16;not null;default:markdown"`
	Content        string                            `json:"content"        gorm:"type:text"`
	ContentBlocks  datatypes.JSONSlice[ContentBlock] `json:"contentBlocks"`
	Tags           datatypes.JSONSlice[string]       `json:"tags"`
	SEOTitle       string                            `json:"seoTitle"       gorm:"size:255"`
	SEODescription string                            `json:"seoDescription" gorm:"type:text"`
	SEOKeywords    datatypes.JSONSlice[string]       `json:"seoKeywords"`
	AuthorID       *string                           `json:"authorId"       gorm:"type:char(36);index"`
	ScheduledFor   *time.Time                        `json:"scheduledFor"   gorm:"index"`
	PublishedAt    *time.Time                        `json:"publishedAt"`
}

func (PostModel) TableName() string { return "posts" }
