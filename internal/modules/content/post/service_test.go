package post

import (
	"context"
	"testing"
	"time"

	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/cache"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(title, slug, service string, status models.PostStatus) *models.PostModel {
	return &models.PostModel{
		Title:    title,
		Slug:     slug,
		Service:  service,
		Category: "Market Analysis",
		Status:   status,
		Content:  "Some content",
		Tags:     []string{"defi", "guide"},
	}
}

func TestCreateAssignsIDAndRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.New(t))

	post, err := svc.Create(ctx, newPost("Hello World", "hello-world", "crypto", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, models.PostDraft, post.Status)
	assert.Equal(t, models.BodyMarkdown, post.BodyKind)
	assert.Nil(t, post.PublishedAt)

	_, err = svc.Create(ctx, newPost("Again", "hello-world", "crypto", ""))
	assert.ErrorIs(t, err, ErrSlugTaken)

	// the same slug is free in another service
	_, err = svc.Create(ctx, newPost("Hello World", "hello-world", "writing", ""))
	assert.NoError(t, err)
}

func TestUpdatePatchesFieldsAndStampsPublish(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(dbtest.New(t), WithClock(func() time.Time { return now }))

	post, err := svc.Create(ctx, newPost("Draft", "draft", "crypto", models.PostDraft))
	require.NoError(t, err)

	title := "Published"
	status := models.PostPublished
	kind := models.BodyBlocks
	updated, err := svc.Update(ctx, post.ID, &UpdatePostDTO{
		Title:         &title,
		Status:        &status,
		BodyKind:      &kind,
		ContentBlocks: []models.ContentBlock{{Type: models.BlockText, Content: "hi"}},
		Tags:          []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Published", updated.Title)
	assert.Equal(t, models.PostPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, updated.PublishedAt.Equal(now))
	require.Len(t, updated.ContentBlocks, 1)
	assert.Equal(t, "hi", updated.ContentBlocks[0].Content)
	assert.Empty(t, updated.Tags)

	missing, err := svc.Update(ctx, "nope", &UpdatePostDTO{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateRejectsSlugOfSibling(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.New(t))
	_, err := svc.Create(ctx, newPost("One", "one", "crypto", ""))
	require.NoError(t, err)
	two, err := svc.Create(ctx, newPost("Two", "two", "crypto", ""))
	require.NoError(t, err)

	slug := "one"
	_, err = svc.Update(ctx, two.ID, &UpdatePostDTO{Slug: &slug})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.New(t))
	for _, p := range []*models.PostModel{
		newPost("Crypto Guide", "crypto-guide", "crypto", models.PostPublished),
		newPost("Crypto Draft", "crypto-draft", "crypto", models.PostDraft),
		newPost("Essay Tips", "essay-tips", "writing", models.PostPublished),
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	items, pag, err := svc.List(ctx, pagination.New(1, 10), ListFilter{Service: "crypto", PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "crypto-guide", items[0].Slug)
	assert.Equal(t, int64(1), pag.Total)

	items, _, err = svc.List(ctx, pagination.New(1, 10), ListFilter{Status: models.PostDraft})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "crypto-draft", items[0].Slug)

	items, _, err = svc.List(ctx, pagination.New(1, 10), ListFilter{Search: "ESSAY"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, _, err = svc.List(ctx, pagination.New(1, 10), ListFilter{Tag: "defi"})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, pag, err = svc.List(ctx, pagination.New(2, 2), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, pag.TotalPage)
	assert.False(t, pag.HasNextPage)
}

func TestPublishedReadsAreCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory(time.Hour, nil)
	svc := NewService(dbtest.New(t), WithCache(mem))

	post, err := svc.Create(ctx, newPost("Hello", "hello", "crypto", models.PostPublished))
	require.NoError(t, err)

	got, err := svc.GetPublished(ctx, "crypto", "hello")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, mem.Len())

	title := "Changed"
	_, err = svc.Update(ctx, post.ID, &UpdatePostDTO{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 0, mem.Len())

	got, err = svc.GetPublished(ctx, "crypto", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)

	require.NoError(t, svc.Delete(ctx, post.ID))
	got, err = svc.GetPublished(ctx, "crypto", "hello")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPublishDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(dbtest.New(t), WithClock(func() time.Time { return now }))

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	due := newPost("Due", "due", "crypto", models.PostScheduled)
	due.ScheduledFor = &past
	later := newPost("Later", "later", "crypto", models.PostScheduled)
	later.ScheduledFor = &future
	for _, p := range []*models.PostModel{due, later} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	n, err := svc.PublishDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := svc.Get(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	got, err = svc.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostScheduled, got.Status)
}
