package editor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/handywriterz/core/internal/modules/storage/file"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

var errBackend = errors.New("backend unavailable")

func ptr[T any](v T) *T { return &v }

// gate lets a test hold a gateway call open.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakePosts struct {
	mu      sync.Mutex
	posts   map[string]*models.PostModel
	creates int
	updates int
	err     error
	gate    *gate
	last    *models.PostModel
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[string]*models.PostModel{}}
}

func (f *fakePosts) Get(_ context.Context, id string) (*models.PostModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Create(ctx context.Context, p *models.PostModel) (*models.PostModel, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	p.ID = uuid.NewString()
	cp := *p
	f.posts[p.ID] = &cp
	f.last = &cp
	return p, nil
}

func (f *fakePosts) Update(ctx context.Context, id string, dto *post.UpdatePostDTO) (*models.PostModel, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	if dto.Title != nil {
		p.Title = *dto.Title
	}
	if dto.Slug != nil {
		p.Slug = *dto.Slug
	}
	if dto.Status != nil {
		p.Status = *dto.Status
	}
	if dto.BodyKind != nil {
		p.BodyKind = *dto.BodyKind
	}
	if dto.Content != nil {
		p.Content = *dto.Content
	}
	if dto.ContentBlocks != nil {
		p.ContentBlocks = dto.ContentBlocks
	}
	if dto.ClearSchedule {
		p.ScheduledFor = nil
	} else if dto.ScheduledFor != nil {
		p.ScheduledFor = dto.ScheduledFor
	}
	if dto.PublishedAt != nil {
		p.PublishedAt = dto.PublishedAt
	}
	cp := *p
	f.last = &cp
	return &cp, nil
}

func (f *fakePosts) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

type fakeCategories struct {
	byService map[string][]string
	err       error
	calls     int
}

func (f *fakeCategories) List(_ context.Context, service string) ([]models.CategoryModel, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.CategoryModel
	for _, name := range f.byService[service] {
		out = append(out, models.CategoryModel{Name: name, Service: service})
	}
	return out, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	folders []string
	err     error
	gate    *gate
}

func (f *fakeStorage) Upload(ctx context.Context, folder, name string, body io.Reader, _ int64, _ string) (*file.Object, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.folders = append(f.folders, folder)
	key := folder + "/" + name
	return &file.Object{URL: "https://cdn.test/" + key, Path: key}, nil
}

func defaultCategories() *fakeCategories {
	return &fakeCategories{byService: map[string][]string{
		"crypto":  {"Market Analysis", "DeFi"},
		"writing": {"Market Analysis", "Essays"},
		"nursing": {"Clinical"},
	}}
}

func testDeps(posts PostGateway, cats CategoryGateway, store StorageGateway) Deps {
	return Deps{
		Posts:      posts,
		Categories: cats,
		Storage:    store,
		Timeout:    time.Second,
		Location:   time.UTC,
		Now:        func() time.Time { return testNow },
	}
}

func newTestController(t *testing.T, posts PostGateway) (*Controller, *fakeCategories, *fakeStorage) {
	t.Helper()
	cats := defaultCategories()
	store := &fakeStorage{}
	return NewController(NewDraft(), "author-1", testDeps(posts, cats, store)), cats, store
}

// validFields fills every field a draft needs to pass validation.
func validFields() Fields {
	return Fields{
		Title:    ptr("Hello World"),
		Service:  ptr("crypto"),
		Category: ptr("Market Analysis"),
		Markdown: ptr("Some content"),
	}
}
