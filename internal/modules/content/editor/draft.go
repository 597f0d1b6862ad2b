// Package editor implements server-side post editing sessions: the draft a
// post is authored in, and the controller that mutates, previews and submits it.
package editor

import (
	"strings"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/slug"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Body is the post body as a tagged variant. Only the representation named by
// Kind is authoritative; the other is kept so switching back loses nothing.
type Body struct {
	Kind     models.BodyKind       `json:"kind"`
	Markdown string                `json:"markdown"`
	Blocks   []models.ContentBlock `json:"blocks"`
}

// Empty reports whether the active representation has no content.
func (b Body) Empty() bool {
	if b.Kind == models.BodyBlocks {
		return len(b.Blocks) == 0
	}
	return strings.TrimSpace(b.Markdown) == ""
}

// Draft is the in-memory state of one post being authored.
type Draft struct {
	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Excerpt        string            `json:"excerpt"`
	Status         models.PostStatus `json:"status"`
	Service        string            `json:"service"`
	Category       string            `json:"category"`
	Featured       bool              `json:"featured"`
	FeaturedImage  string            `json:"featuredImage"`
	MediaType      models.MediaType  `json:"mediaType"`
	MediaURL       string            `json:"mediaUrl"`
	Body           Body              `json:"body"`
	Tags           []string          `json:"tags"`
	SEOTitle       string            `json:"seoTitle"`
	SEODescription string            `json:"seoDescription"`
	SEOKeywords    []string          `json:"seoKeywords"`
	ScheduledDate  string            `json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime  string            `json:"scheduledTime"` // HH:MM
	PublishedAt    *time.Time        `json:"publishedAt"`
	SlugTouched    bool              `json:"slugTouched"`
}

// NewDraft returns an empty draft for a post that does not exist yet.
func NewDraft() *Draft {
	return &Draft{
		Status:    models.PostDraft,
		MediaType: models.MediaImage,
		Body:      Body{Kind: models.BodyMarkdown},
		Tags:      []string{},
	}
}

// DraftFromPost loads a persisted post. Schedule fields are expressed in loc.
func DraftFromPost(p *models.PostModel, loc *time.Location) *Draft {
	kind := p.BodyKind
	if kind == "" {
		kind = models.BodyMarkdown
	}
	d := &Draft{
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
		Body:           Body{Kind: kind, Markdown: p.Content, Blocks: cloneBlocks(p.ContentBlocks)},
		Tags:           cloneStrings(p.Tags),
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		SEOKeywords:    cloneStrings(p.SEOKeywords),
		PublishedAt:    p.PublishedAt,
		SlugTouched:    true,
	}
	if d.Status == "" {
		d.Status = models.PostDraft
	}
	if p.ScheduledFor != nil {
		local := p.ScheduledFor.In(loc)
		d.ScheduledDate = local.Format(dateLayout)
		d.ScheduledTime = local.Format(timeLayout)
	}
	return d
}

// IsNew reports whether the draft has never been persisted.
func (d *Draft) IsNew() bool { return d.ID == "" }

// SetTitle updates the title. On a new post whose slug was never edited by
// hand, the slug follows the title.
func (d *Draft) SetTitle(title string) {
	d.Title = title
	if d.IsNew() && !d.SlugTouched {
		d.Slug = slug.FromTitle(title)
	}
}

// SetSlug records a manual slug edit; the title stops driving it.
func (d *Draft) SetSlug(s string) {
	d.Slug = strings.TrimSpace(s)
	d.SlugTouched = true
}

// SetService switches the post's service. The category survives only when
// it is one of serviceCategories.
func (d *Draft) SetService(service string, serviceCategories []string) {
	d.Service = strings.TrimSpace(service)
	if d.Category == "" {
		return
	}
	for _, name := range serviceCategories {
		if name == d.Category {
			return
		}
	}
	d.Category = ""
}

// ScheduledFor combines the schedule date and time in loc.
func (d *Draft) ScheduledFor(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout,
		strings.TrimSpace(d.ScheduledDate)+" "+strings.TrimSpace(d.ScheduledTime), loc)
}

func (d *Draft) clearSchedule() {
	d.ScheduledDate = ""
	d.ScheduledTime = ""
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Body.Blocks = cloneBlocks(d.Body.Blocks)
	c.Tags = cloneStrings(d.Tags)
	c.SEOKeywords = cloneStrings(d.SEOKeywords)
	if d.PublishedAt != nil {
		t := *d.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func cloneBlocks(in []models.ContentBlock) []models.ContentBlock {
	if in == nil {
		return []models.ContentBlock{}
	}
	return append(make([]models.ContentBlock, 0, len(in)), in...)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append(make([]string, 0, len(in)), in...)
}
