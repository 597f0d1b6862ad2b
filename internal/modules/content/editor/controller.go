package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/handywriterz/core/internal/modules/processing/markdown"
	"github.com/handywriterz/core/internal/modules/storage/file"
	"go.uber.org/zap"
)

// State is the externally visible editor state.
type State string

const (
	StateEditing    State = "editing"
	StatePreviewing State = "previewing"
	StateUploading  State = "uploading-media"
	StateSaving     State = "saving"
)

// Intent selects how Submit resolves the post's status and schedule.
type Intent string

const (
	IntentSave      Intent = "save"
	IntentSaveDraft Intent = "save-draft"
	IntentPublish   Intent = "publish"
	IntentSchedule  Intent = "schedule"
)

// ParseIntent accepts the submit intents; "" means IntentSave.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.TrimSpace(s)) {
	case "", IntentSave:
		return IntentSave, nil
	case IntentSaveDraft:
		return IntentSaveDraft, nil
	case IntentPublish:
		return IntentPublish, nil
	case IntentSchedule:
		return IntentSchedule, nil
	}
	return "", ErrUnknownIntent
}

var (
	ErrPreviewing       = errors.New("editor is in preview mode")
	ErrSaveInProgress   = errors.New("a save is already in progress")
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrInvalidDraft     = errors.New("draft has validation errors")
	ErrIndexOutOfRange  = errors.New("block index out of range")
	ErrUnknownIntent    = errors.New("intent must be save, save-draft, publish or schedule")
	ErrInvalidMode      = errors.New("mode must be markdown or blocks")
	ErrInvalidField     = errors.New("invalid field value")
	ErrInvalidTarget    = errors.New("upload target must be an image or video block")
	ErrPostGone         = errors.New("post no longer exists")
)

// PostGateway persists posts.
type PostGateway interface {
	Get(ctx context.Context, id string) (*models.PostModel, error)
	Create(ctx context.Context, p *models.PostModel) (*models.PostModel, error)
	Update(ctx context.Context, id string, dto *post.UpdatePostDTO) (*models.PostModel, error)
}

// CategoryGateway lists the categories of a service.
type CategoryGateway interface {
	List(ctx context.Context, service string) ([]models.CategoryModel, error)
}

// StorageGateway stores uploaded media.
type StorageGateway interface {
	Upload(ctx context.Context, folder, name string, body io.Reader, size int64, contentType string) (*file.Object, error)
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Posts      PostGateway
	Categories CategoryGateway
	Storage    StorageGateway
	// Timeout bounds every gateway call. Zero disables the bound.
	Timeout  time.Duration
	Location *time.Location
	Now      func() time.Time
	Log      *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return d
}

// Fields patches draft scalars; nil members are left alone.
type Fields struct {
	Title          *string            `json:"title"`
	Slug           *string            `json:"slug"`
	Excerpt        *string            `json:"excerpt"`
	Status         *models.PostStatus `json:"status"`
	Service        *string            `json:"service"`
	Category       *string            `json:"category"`
	Featured       *bool              `json:"featured"`
	FeaturedImage  *string            `json:"featuredImage"`
	MediaType      *models.MediaType  `json:"mediaType"`
	MediaURL       *string            `json:"mediaUrl"`
	Markdown       *string            `json:"markdown"`
	Tags           []string           `json:"tags"`
	SEOTitle       *string            `json:"seoTitle"`
	SEODescription *string            `json:"seoDescription"`
	SEOKeywords    []string           `json:"seoKeywords"`
	ScheduledDate  *string            `json:"scheduledDate"`
	ScheduledTime  *string            `json:"scheduledTime"`
}

// TargetKind says where an uploaded file lands.
type TargetKind string

const (
	// TargetAuto splices into markdown or stages a new block, following the mode.
	TargetAuto     TargetKind = ""
	TargetInline   TargetKind = "inline"
	TargetNewBlock TargetKind = "new-block"
	TargetBlock    TargetKind = "block"
	TargetFeatured TargetKind = "featured"
)

// Target locates an upload. Cursor is a rune offset into the markdown body;
// nil appends. Index addresses an existing image or video block.
type Target struct {
	Kind   TargetKind `json:"kind"`
	Cursor *int       `json:"cursor"`
	Index  int        `json:"index"`
}

// Media is a file handed to UploadMedia.
type Media struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result is the outcome of a successful submit.
type Result struct {
	ID      string            `json:"id"`
	Created bool              `json:"created"`
	Post    *models.PostModel `json:"post"`
}

// View is the read-only surface a controller exposes.
type View struct {
	Draft         *Draft               `json:"draft"`
	Errors        map[string]string    `json:"errors"`
	Mode          models.BodyKind      `json:"mode"`
	EditorState   State                `json:"editorState"`
	LastError     string               `json:"lastError"`
	BlockFormOpen bool                 `json:"blockFormOpen"`
	StagedBlock   *models.ContentBlock `json:"stagedBlock"`
}

// Controller drives one draft. Gateway calls run without holding the lock;
// the saving and uploading flags keep them from overlapping with themselves.
type Controller struct {
	deps     Deps
	authorID string

	mu            sync.Mutex
	draft         *Draft
	errors        map[string]string
	lastError     string
	previewing    bool
	uploading     bool
	saving        bool
	blockFormOpen bool
	staged        *models.ContentBlock
}

// NewController takes ownership of d. authorID is stamped on created posts.
func NewController(d *Draft, authorID string, deps Deps) *Controller {
	if d == nil {
		d = NewDraft()
	}
	return &Controller{deps: deps.withDefaults(), authorID: authorID, draft: d, errors: map[string]string{}}
}

// State reports the most significant active state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.saving:
		return StateSaving
	case c.uploading:
		return StateUploading
	case c.previewing:
		return StatePreviewing
	}
	return StateEditing
}

// Busy reports whether a gateway call is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving || c.uploading
}

// View returns a snapshot safe to serialize.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	var staged *models.ContentBlock
	if c.staged != nil {
		b := *c.staged
		staged = &b
	}
	return View{
		Draft:         c.draft.Clone(),
		Errors:        errs,
		Mode:          c.draft.Body.Kind,
		EditorState:   c.stateLocked(),
		LastError:     c.lastError,
		BlockFormOpen: c.blockFormOpen,
		StagedBlock:   staged,
	}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() *Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// mutate runs fn under the lock when the draft may be edited.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	return fn()
}

func (c *Controller) editableLocked() error {
	if c.previewing {
		return ErrPreviewing
	}
	if c.saving {
		return ErrSaveInProgress
	}
	return nil
}

func (c *Controller) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.deps.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.deps.Timeout)
}

// SetMode switches the active body representation. The other one is kept.
func (c *Controller) SetMode(kind models.BodyKind) error {
	if kind != models.BodyMarkdown && kind != models.BodyBlocks {
		return ErrInvalidMode
	}
	return c.mutate(func() error {
		c.draft.Body.Kind = kind
		return nil
	})
}

// ApplyFields patches the draft. A service change consults the category
// gateway so the category survives only when it belongs to the new service;
// if that lookup fails nothing is applied.
func (c *Controller) ApplyFields(ctx context.Context, f Fields) error {
	if f.Status != nil && !f.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidField, *f.Status)
	}
	if f.MediaType != nil && !f.MediaType.Valid() {
		return fmt.Errorf("%w: media type %q", ErrInvalidField, *f.MediaType)
	}

	var serviceCategories []string
	if f.Service != nil {
		c.mu.Lock()
		err := c.editableLocked()
		changed := strings.TrimSpace(*f.Service) != c.draft.Service
		c.mu.Unlock()
		if err != nil {
			return err
		}
		if changed {
			names, err := c.categoryNames(ctx, strings.TrimSpace(*f.Service))
			if err != nil {
				c.fail("Could not load categories for the selected service", err)
				return err
			}
			serviceCategories = names
		}
	}

	return c.mutate(func() error {
		d := c.draft
		if f.Title != nil {
			d.SetTitle(*f.Title)
			c.clearErrors(FieldTitle)
			if !d.SlugTouched {
				c.clearErrors(FieldSlug)
			}
		}
		if f.Slug != nil {
			d.SetSlug(*f.Slug)
			c.clearErrors(FieldSlug)
		}
		if f.Excerpt != nil {
			d.Excerpt = *f.Excerpt
		}
		if f.Status != nil {
			d.Status = *f.Status
			c.clearErrors(FieldScheduledFor)
		}
		if f.Service != nil && strings.TrimSpace(*f.Service) != d.Service {
			d.SetService(*f.Service, serviceCategories)
			c.clearErrors(FieldService, FieldCategory)
		}
		if f.Category != nil {
			d.Category = strings.TrimSpace(*f.Category)
			c.clearErrors(FieldCategory)
		}
		if f.Featured != nil {
			d.Featured = *f.Featured
		}
		if f.FeaturedImage != nil {
			d.FeaturedImage = strings.TrimSpace(*f.FeaturedImage)
		}
		if f.MediaType != nil {
			d.MediaType = *f.MediaType
		}
		if f.MediaURL != nil {
			d.MediaURL = strings.TrimSpace(*f.MediaURL)
		}
		if f.Markdown != nil {
			d.Body.Markdown = *f.Markdown
			c.clearErrors(FieldContent)
		}
		if f.Tags != nil {
			d.Tags = normalizeSet(f.Tags)
		}
		if f.SEOTitle != nil {
			d.SEOTitle = *f.SEOTitle
		}
		if f.SEODescription != nil {
			d.SEODescription = *f.SEODescription
		}
		if f.SEOKeywords != nil {
			d.SEOKeywords = normalizeSet(f.SEOKeywords)
		}
		if f.ScheduledDate != nil {
			d.ScheduledDate = strings.TrimSpace(*f.ScheduledDate)
			c.clearErrors(FieldScheduledFor)
		}
		if f.ScheduledTime != nil {
			d.ScheduledTime = strings.TrimSpace(*f.ScheduledTime)
			c.clearErrors(FieldScheduledFor)
		}
		return nil
	})
}

// OpenBlockForm starts composing a block of type t.
func (c *Controller) OpenBlockForm(t models.BlockType) error {
	if !t.Valid() {
		return ErrInvalidBlock
	}
	return c.mutate(func() error {
		c.blockFormOpen = true
		c.staged = &models.ContentBlock{Type: t}
		return nil
	})
}

// CloseBlockForm discards the block being composed.
func (c *Controller) CloseBlockForm() error {
	return c.mutate(func() error {
		c.blockFormOpen = false
		c.staged = nil
		return nil
	})
}

// InsertBlock appends b and closes the block form. A block without its
// primary content is refused with ErrEmptyBlock and leaves the body untouched.
func (c *Controller) InsertBlock(b models.ContentBlock) error {
	return c.mutate(func() error {
		block, err := normalizeBlock(b)
		if errors.Is(err, ErrEmptyBlock) {
			c.lastError = "Add some content before inserting the block"
			return err
		}
		if err != nil {
			return err
		}
		c.draft.Body.Blocks = append(c.draft.Body.Blocks, block)
		c.blockFormOpen = false
		c.staged = nil
		c.lastError = ""
		c.clearErrors(FieldContent)
		return nil
	})
}

// RemoveBlock deletes the block at index.
func (c *Controller) RemoveBlock(index int) error {
	return c.mutate(func() error {
		if index < 0 || index >= len(c.draft.Body.Blocks) {
			return ErrIndexOutOfRange
		}
		c.draft.Body.Blocks = removeBlock(c.draft.Body.Blocks, index)
		return nil
	})
}

// MoveBlock swaps the block at index with its neighbour in dir.
func (c *Controller) MoveBlock(index int, dir Direction) error {
	if dir != Up && dir != Down {
		return ErrInvalidField
	}
	return c.mutate(func() error {
		if index < 0 || index >= len(c.draft.Body.Blocks) {
			return ErrIndexOutOfRange
		}
		moveBlock(c.draft.Body.Blocks, index, dir)
		return nil
	})
}

// Preview renders the active body and enters the read-only preview state.
// It refuses while an upload or save could still change the draft.
func (c *Controller) Preview() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return "", ErrSaveInProgress
	}
	if c.uploading {
		return "", ErrUploadInProgress
	}
	c.previewing = true
	if c.draft.Body.Kind == models.BodyBlocks {
		return markdown.RenderBlocks(c.draft.Body.Blocks), nil
	}
	return markdown.Render(c.draft.Body.Markdown), nil
}

// ExitPreview returns to editing.
func (c *Controller) ExitPreview() {
	c.mu.Lock()
	c.previewing = false
	c.mu.Unlock()
}

// UploadMedia stores m in the folder of the post's service and applies the
// returned URL to t. On failure the draft is left as it was.
func (c *Controller) UploadMedia(ctx context.Context, m Media, t Target) (*file.Object, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	if t.Kind == TargetAuto {
		t.Kind = TargetInline
		if c.draft.Body.Kind == models.BodyBlocks {
			t.Kind = TargetNewBlock
		}
	}
	switch t.Kind {
	case TargetInline, TargetNewBlock, TargetFeatured:
	case TargetBlock:
		if !c.mediaBlockLocked(t.Index) {
			c.mu.Unlock()
			return nil, ErrInvalidTarget
		}
	default:
		c.mu.Unlock()
		return nil, ErrInvalidTarget
	}
	folder := c.draft.Service
	if folder == "" {
		folder = "general"
	}
	c.uploading = true
	c.mu.Unlock()

	callCtx, cancel := c.bounded(ctx)
	obj, err := c.deps.Storage.Upload(callCtx, folder, m.Name, m.Body, m.Size, m.ContentType)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = false
	if err != nil {
		c.failLocked("Upload failed", err)
		return nil, err
	}

	switch t.Kind {
	case TargetInline:
		c.draft.Body.Markdown = spliceAt(c.draft.Body.Markdown, t.Cursor, imageMarkdown(m.Name, obj.URL))
		delete(c.errors, FieldContent)
	case TargetNewBlock:
		c.staged = &models.ContentBlock{Type: blockTypeFor(m.ContentType), URL: obj.URL}
		c.blockFormOpen = true
	case TargetBlock:
		// the body may have changed while the upload ran
		if !c.mediaBlockLocked(t.Index) {
			c.failLocked("The block the file was meant for is gone", ErrIndexOutOfRange)
			return obj, ErrIndexOutOfRange
		}
		c.draft.Body.Blocks[t.Index].URL = obj.URL
	case TargetFeatured:
		c.draft.FeaturedImage = obj.URL
	}
	c.lastError = ""
	return obj, nil
}

func (c *Controller) mediaBlockLocked(index int) bool {
	blocks := c.draft.Body.Blocks
	if index < 0 || index >= len(blocks) {
		return false
	}
	return blocks[index].Type == models.BlockImage || blocks[index].Type == models.BlockVideo
}

// Submit validates the draft under intent and creates or updates the post.
// Validation failures return ErrInvalidDraft with the field errors in View.
func (c *Controller) Submit(ctx context.Context, intent Intent) (*Result, error) {
	if intent == "" {
		intent = IntentSave
	}
	if _, err := ParseIntent(string(intent)); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.previewing {
		c.mu.Unlock()
		return nil, ErrPreviewing
	}
	if c.saving {
		c.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	c.saving = true
	snap := c.draft.Clone()
	c.mu.Unlock()

	now := c.deps.Now()
	resolveIntent(snap, intent, now)

	var categories []string
	if snap.Service != "" {
		names, err := c.categoryNames(ctx, snap.Service)
		if err != nil {
			c.finishSave(nil, "Could not load categories", err)
			return nil, err
		}
		categories = names
	}

	if err := snap.Validate(Rules{Status: snap.Status, Now: now, Loc: c.deps.Location, Categories: categories}); err != nil {
		c.finishSave(FieldErrors(err), "Please fix the highlighted fields", nil)
		return nil, ErrInvalidDraft
	}

	callCtx, cancel := c.bounded(ctx)
	defer cancel()
	var (
		saved   *models.PostModel
		err     error
		created = snap.IsNew()
	)
	if created {
		p := snap.toPost(c.deps.Location)
		if c.authorID != "" {
			author := c.authorID
			p.AuthorID = &author
		}
		saved, err = c.deps.Posts.Create(callCtx, p)
	} else {
		saved, err = c.deps.Posts.Update(callCtx, snap.ID, snap.toUpdate(c.deps.Location))
		if err == nil && saved == nil {
			err = ErrPostGone
		}
	}
	if err != nil {
		if errors.Is(err, post.ErrSlugTaken) {
			c.finishSave(map[string]string{FieldSlug: "this slug is already used in the selected service"}, "Please fix the highlighted fields", err)
			return nil, err
		}
		c.finishSave(nil, "Could not save the post", err)
		return nil, err
	}

	c.mu.Lock()
	c.draft.ID = saved.ID
	c.draft.Status = saved.Status
	c.draft.ScheduledDate = snap.ScheduledDate
	c.draft.ScheduledTime = snap.ScheduledTime
	c.draft.PublishedAt = saved.PublishedAt
	c.draft.SlugTouched = true
	c.errors = map[string]string{}
	c.lastError = ""
	c.saving = false
	c.mu.Unlock()

	c.deps.Log.Info("post saved",
		zap.String("id", saved.ID),
		zap.Bool("created", created),
		zap.String("status", string(saved.Status)))
	return &Result{ID: saved.ID, Created: created, Post: saved}, nil
}

// resolveIntent sets the status and schedule the submit persists.
func resolveIntent(d *Draft, intent Intent, now time.Time) {
	switch intent {
	case IntentSaveDraft:
		d.Status = models.PostDraft
	case IntentPublish:
		d.Status = models.PostPublished
	case IntentSchedule:
		d.Status = models.PostScheduled
	}
	if d.Status != models.PostScheduled {
		d.clearSchedule()
	}
	if d.Status == models.PostPublished && d.PublishedAt == nil {
		d.PublishedAt = &now
	}
}

func (c *Controller) finishSave(fieldErrs map[string]string, message string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if fieldErrs != nil {
		c.errors = fieldErrs
	}
	if err != nil {
		c.failLocked(message, err)
		return
	}
	c.lastError = message
}

func (c *Controller) categoryNames(ctx context.Context, service string) ([]string, error) {
	callCtx, cancel := c.bounded(ctx)
	defer cancel()
	cats, err := c.deps.Categories.List(callCtx, service)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	return names, nil
}

func (c *Controller) fail(message string, err error) {
	c.mu.Lock()
	c.failLocked(message, err)
	c.mu.Unlock()
}

func (c *Controller) failLocked(message string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		message += ": the request timed out"
	}
	c.lastError = message
	c.deps.Log.Warn("editor gateway call failed", zap.String("message", message), zap.Error(err))
}

func (c *Controller) clearErrors(fields ...string) {
	for _, f := range fields {
		delete(c.errors, f)
	}
}

func (d *Draft) scheduledForUTC(loc *time.Location) *time.Time {
	if d.Status != models.PostScheduled {
		return nil
	}
	at, err := d.ScheduledFor(loc)
	if err != nil {
		return nil
	}
	at = at.UTC()
	return &at
}

func (d *Draft) toPost(loc *time.Location) *models.PostModel {
	p := &models.PostModel{
		Title:          strings.TrimSpace(d.Title),
		Slug:           d.Slug,
		Excerpt:        d.Excerpt,
		Status:         d.Status,
		Service:        d.Service,
		Category:       d.Category,
		Featured:       d.Featured,
		FeaturedImage:  d.FeaturedImage,
		MediaType:      d.MediaType,
		MediaURL:       d.MediaURL,
		BodyKind:       d.Body.Kind,
		ContentBlocks:  []models.ContentBlock{},
		Tags:           cloneStrings(d.Tags),
		SEOTitle:       d.SEOTitle,
		SEODescription: d.SEODescription,
		SEOKeywords:    cloneStrings(d.SEOKeywords),
		ScheduledFor:   d.scheduledForUTC(loc),
		PublishedAt:    d.PublishedAt,
	}
	if d.Body.Kind == models.BodyBlocks {
		p.ContentBlocks = cloneBlocks(d.Body.Blocks)
	} else {
		p.Content = d.Body.Markdown
	}
	return p
}

// toUpdate builds a full replacement of the editable columns.
func (d *Draft) toUpdate(loc *time.Location) *post.UpdatePostDTO {
	p := d.toPost(loc)
	dto := &post.UpdatePostDTO{
		Title:          &p.Title,
		Slug:           &p.Slug,
		Excerpt:        &p.Excerpt,
		Status:         &p.Status,
		Service:        &p.Service,
		Category:       &p.Category,
		Featured:       &p.Featured,
		FeaturedImage:  &p.FeaturedImage,
		MediaType:      &p.MediaType,
		MediaURL:       &p.MediaURL,
		BodyKind:       &p.BodyKind,
		Content:        &p.Content,
		ContentBlocks:  []models.ContentBlock(p.ContentBlocks),
		Tags:           []string(p.Tags),
		SEOTitle:       &p.SEOTitle,
		SEODescription: &p.SEODescription,
		SEOKeywords:    []string(p.SEOKeywords),
		ScheduledFor:   p.ScheduledFor,
		ClearSchedule:  p.ScheduledFor == nil,
		PublishedAt:    p.PublishedAt,
	}
	return dto
}

// spliceAt inserts text at a rune offset of s. A nil cursor appends; offsets are clamped.
func spliceAt(s string, cursor *int, text string) string {
	runes := []rune(s)
	at := len(runes)
	if cursor != nil {
		at = *cursor
		if at < 0 {
			at = 0
		}
		if at > len(runes) {
			at = len(runes)
		}
	}
	return string(runes[:at]) + text + string(runes[at:])
}

func imageMarkdown(name, url string) string {
	alt := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if alt == "." || alt == "/" {
		alt = ""
	}
	return "![" + alt + "](" + url + ")"
}

func blockTypeFor(contentType string) models.BlockType {
	if strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return models.BlockVideo
	}
	return models.BlockImage
}

func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
