package editor

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCreatesDraftPost(t *testing.T) {
	ctx := context.Background()
	posts := post.NewService(dbtest.New(t))
	c, _, _ := newTestController(t, posts)

	require.NoError(t, c.ApplyFields(ctx, validFields()))
	res, err := c.Submit(ctx, IntentSave)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "hello-world", res.Post.Slug)
	assert.Equal(t, models.PostDraft, res.Post.Status)
	require.NotNil(t, res.Post.AuthorID)
	assert.Equal(t, "author-1", *res.Post.AuthorID)

	view := c.View()
	assert.Equal(t, res.ID, view.Draft.ID)
	assert.Empty(t, view.Errors)
	assert.Equal(t, StateEditing, view.EditorState)

	stored, err := posts.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Some content", stored.Content)
}

func TestSubmitScheduledWithoutDateMakesNoCreateCall(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	c, _, _ := newTestController(t, posts)

	f := validFields()
	f.Status = ptr(models.PostScheduled)
	require.NoError(t, c.ApplyFields(ctx, f))

	_, err := c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, ErrInvalidDraft)

	view := c.View()
	assert.Contains(t, view.Errors, FieldScheduledFor)
	assert.NotEmpty(t, view.LastError)
	creates, updates := posts.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)
}

func TestSubmitReportsEveryMissingField(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	c, _, _ := newTestController(t, posts)

	_, err := c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, ErrInvalidDraft)
	errs := c.View().Errors
	for _, field := range []string{FieldTitle, FieldSlug, FieldContent, FieldService, FieldCategory} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, FieldScheduledFor)

	f := validFields()
	f.Slug = ptr("Not A Slug")
	require.NoError(t, c.ApplyFields(ctx, f))
	_, err = c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Equal(t, []string{FieldSlug}, keys(c.View().Errors))

	creates, _ := posts.counts()
	assert.Zero(t, creates)
}

func TestSubmitRejectsCategoryOfAnotherService(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	c, _, _ := newTestController(t, posts)

	f := validFields()
	f.Category = ptr("Clinical")
	require.NoError(t, c.ApplyFields(ctx, f))
	_, err := c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Contains(t, c.View().Errors, FieldCategory)
}

func TestEditingAFieldClearsItsError(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, newFakePosts())

	_, err := c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, ErrInvalidDraft)
	require.NoError(t, c.ApplyFields(ctx, Fields{Markdown: ptr("body")}))

	errs := c.View().Errors
	assert.NotContains(t, errs, FieldContent)
	assert.Contains(t, errs, FieldTitle)
}

func TestTitleDrivesSlugOnlyForNewPosts(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, newFakePosts())

	require.NoError(t, c.ApplyFields(ctx, Fields{Title: ptr("Crypto & DeFi: A Guide!")}))
	assert.Equal(t, "crypto-defi-a-guide", c.Draft().Slug)

	require.NoError(t, c.ApplyFields(ctx, Fields{Slug: ptr("my-guide")}))
	require.NoError(t, c.ApplyFields(ctx, Fields{Title: ptr("Something Else")}))
	assert.Equal(t, "my-guide", c.Draft().Slug)

	existing := DraftFromPost(&models.PostModel{Base: models.Base{ID: "p1"}, Title: "Old", Slug: "old", Status: models.PostPublished}, time.UTC)
	e := NewController(existing, "", testDeps(newFakePosts(), defaultCategories(), &fakeStorage{}))
	require.NoError(t, e.ApplyFields(ctx, Fields{Title: ptr("Brand New Title")}))
	assert.Equal(t, "old", e.Draft().Slug)
}

func TestServiceChangeKeepsCategoryOnlyWhenItBelongs(t *testing.T) {
	ctx := context.Background()
	c, cats, _ := newTestController(t, newFakePosts())
	require.NoError(t, c.ApplyFields(ctx, Fields{Service: ptr("crypto"), Category: ptr("Market Analysis")}))

	require.NoError(t, c.ApplyFields(ctx, Fields{Service: ptr("writing")}))
	assert.Equal(t, "Market Analysis", c.Draft().Category)

	require.NoError(t, c.ApplyFields(ctx, Fields{Service: ptr("nursing")}))
	d := c.Draft()
	assert.Equal(t, "nursing", d.Service)
	assert.Empty(t, d.Category)

	calls := cats.calls
	require.NoError(t, c.ApplyFields(ctx, Fields{Service: ptr("nursing")}))
	assert.Equal(t, calls, cats.calls, "unchanged service skips the lookup")

	require.NoError(t, c.ApplyFields(ctx, Fields{Category: ptr("Clinical")}))
	cats.err = errBackend
	err := c.ApplyFields(ctx, Fields{Service: ptr("crypto"), Title: ptr("kept?")})
	require.ErrorIs(t, err, errBackend)
	view := c.View()
	assert.Equal(t, "nursing", view.Draft.Service)
	assert.Equal(t, "Clinical", view.Draft.Category)
	assert.Empty(t, view.Draft.Title)
	assert.NotEmpty(t, view.LastError)
}

func TestApplyFieldsRejectsUnknownEnums(t *testing.T) {
	c, _, _ := newTestController(t, newFakePosts())
	err := c.ApplyFields(context.Background(), Fields{Status: ptr(models.PostStatus("live"))})
	assert.ErrorIs(t, err, ErrInvalidField)
	err = c.ApplyFields(context.Background(), Fields{MediaType: ptr(models.MediaType("gif"))})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestMoveBlockIsAPermutation(t *testing.T) {
	c, _, _ := newTestController(t, newFakePosts())
	require.NoError(t, c.SetMode(models.BodyBlocks))
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, c.InsertBlock(models.ContentBlock{Type: models.BlockText, Content: text}))
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		dir := Up
		if rng.Intn(2) == 0 {
			dir = Down
		}
		require.NoError(t, c.MoveBlock(rng.Intn(5), dir))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, sorted(contents(c.Draft().Body.Blocks)))

	before := contents(c.Draft().Body.Blocks)
	require.NoError(t, c.MoveBlock(0, Up))
	require.NoError(t, c.MoveBlock(4, Down))
	assert.Equal(t, before, contents(c.Draft().Body.Blocks))

	require.NoError(t, c.MoveBlock(0, Down))
	after := contents(c.Draft().Body.Blocks)
	assert.Equal(t, before[1], after[0])
	assert.Equal(t, before[0], after[1])

	assert.ErrorIs(t, c.MoveBlock(5, Up), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.MoveBlock(-1, Down), ErrIndexOutOfRange)
}

func TestInsertBlockRejectsEmptyContent(t *testing.T) {
	c, _, _ := newTestController(t, newFakePosts())
	require.NoError(t, c.SetMode(models.BodyBlocks))
	require.NoError(t, c.OpenBlockForm(models.BlockText))

	err := c.InsertBlock(models.ContentBlock{Type: models.BlockText, Content: "  "})
	require.ErrorIs(t, err, ErrEmptyBlock)
	view := c.View()
	assert.Empty(t, view.Draft.Body.Blocks)
	assert.True(t, view.BlockFormOpen)
	assert.NotEmpty(t, view.LastError)

	err = c.InsertBlock(models.ContentBlock{Type: models.BlockImage, Caption: "no url"})
	require.ErrorIs(t, err, ErrEmptyBlock)
	assert.Empty(t, c.Draft().Body.Blocks)

	require.NoError(t, c.InsertBlock(models.ContentBlock{Type: models.BlockDivider}))
	require.NoError(t, c.InsertBlock(models.ContentBlock{Type: models.BlockHeading, Content: "Intro"}))
	view = c.View()
	require.Len(t, view.Draft.Body.Blocks, 2)
	assert.Equal(t, 2, view.Draft.Body.Blocks[1].Level)
	assert.False(t, view.BlockFormOpen)
	assert.Nil(t, view.StagedBlock)
	assert.Empty(t, view.LastError)

	require.NoError(t, c.RemoveBlock(0))
	assert.Len(t, c.Draft().Body.Blocks, 1)
	assert.ErrorIs(t, c.RemoveBlock(3), ErrIndexOutOfRange)
}

func TestModeSwitchKeepsInactiveBodyAndSubmitPersistsActive(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, validFields()))

	require.NoError(t, c.SetMode(models.BodyBlocks))
	require.NoError(t, c.InsertBlock(models.ContentBlock{Type: models.BlockText, Content: "block body"}))
	require.NoError(t, c.SetMode(models.BodyMarkdown))
	require.NoError(t, c.SetMode(models.BodyBlocks))
	d := c.Draft()
	assert.Equal(t, "Some content", d.Body.Markdown)
	assert.Len(t, d.Body.Blocks, 1)

	_, err := c.Submit(ctx, IntentSave)
	require.NoError(t, err)
	assert.Equal(t, models.BodyBlocks, posts.last.BodyKind)
	assert.Empty(t, posts.last.Content)
	assert.Len(t, posts.last.ContentBlocks, 1)

	assert.ErrorIs(t, c.SetMode("html"), ErrInvalidMode)
}

func TestPreviewIsReadOnly(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, Fields{Markdown: ptr("# Title")}))

	html, err := c.Preview()
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Equal(t, StatePreviewing, c.State())

	assert.ErrorIs(t, c.ApplyFields(ctx, Fields{Title: ptr("x")}), ErrPreviewing)
	assert.ErrorIs(t, c.SetMode(models.BodyBlocks), ErrPreviewing)
	assert.ErrorIs(t, c.InsertBlock(models.ContentBlock{Type: models.BlockDivider}), ErrPreviewing)
	_, err = c.Submit(ctx, IntentPublish)
	assert.ErrorIs(t, err, ErrPreviewing)
	_, err = c.UploadMedia(ctx, Media{Name: "a.png", Body: strings.NewReader("x")}, Target{})
	assert.ErrorIs(t, err, ErrPreviewing)
	creates, _ := posts.counts()
	assert.Zero(t, creates)

	c.ExitPreview()
	assert.Equal(t, StateEditing, c.State())
	assert.NoError(t, c.ApplyFields(ctx, Fields{Title: ptr("x")}))
}

func TestUploadInlineSplicesAtCursor(t *testing.T) {
	ctx := context.Background()
	c, _, store := newTestController(t, newFakePosts())
	require.NoError(t, c.ApplyFields(ctx, Fields{Markdown: ptr("Héllo world")}))

	obj, err := c.UploadMedia(ctx, Media{Name: "photo.png", ContentType: "image/png", Body: strings.NewReader("png")},
		Target{Cursor: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/general/photo.png", obj.URL)
	assert.Equal(t, "Héllo![photo](https://cdn.test/general/photo.png) world", c.Draft().Body.Markdown)

	require.NoError(t, c.ApplyFields(ctx, Fields{Service: ptr("crypto")}))
	_, err = c.UploadMedia(ctx, Media{Name: "chart.jpg", Body: strings.NewReader("jpg")}, Target{Kind: TargetInline, Cursor: ptr(999)})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(c.Draft().Body.Markdown, "![chart](https://cdn.test/crypto/chart.jpg)"))
	assert.Equal(t, []string{"general", "crypto"}, store.folders)
}

func TestUploadInBlocksModeStagesBlock(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, newFakePosts())
	require.NoError(t, c.SetMode(models.BodyBlocks))

	_, err := c.UploadMedia(ctx, Media{Name: "clip.mp4", ContentType: "video/mp4", Body: strings.NewReader("mp4")}, Target{})
	require.NoError(t, err)
	view := c.View()
	assert.Empty(t, view.Draft.Body.Blocks)
	assert.True(t, view.BlockFormOpen)
	require.NotNil(t, view.StagedBlock)
	assert.Equal(t, models.BlockVideo, view.StagedBlock.Type)
	assert.Equal(t, "https://cdn.test/general/clip.mp4", view.StagedBlock.URL)

	require.NoError(t, c.InsertBlock(*view.StagedBlock))
	require.Len(t, c.Draft().Body.Blocks, 1)

	_, err = c.UploadMedia(ctx, Media{Name: "new.mp4", Body: strings.NewReader("x")}, Target{Kind: TargetBlock, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/general/new.mp4", c.Draft().Body.Blocks[0].URL)

	_, err = c.UploadMedia(ctx, Media{Name: "cover.png", Body: strings.NewReader("x")}, Target{Kind: TargetFeatured})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/general/cover.png", c.Draft().FeaturedImage)

	_, err = c.UploadMedia(ctx, Media{Name: "x.png", Body: strings.NewReader("x")}, Target{Kind: TargetBlock, Index: 4})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestUploadFailureLeavesDraftUntouched(t *testing.T) {
	ctx := context.Background()
	c, _, store := newTestController(t, newFakePosts())
	require.NoError(t, c.SetMode(models.BodyBlocks))
	store.err = errBackend

	_, err := c.UploadMedia(ctx, Media{Name: "a.png", Body: strings.NewReader("x")}, Target{})
	require.ErrorIs(t, err, errBackend)
	view := c.View()
	assert.Equal(t, StateEditing, view.EditorState)
	assert.Nil(t, view.StagedBlock)
	assert.False(t, view.BlockFormOpen)
	assert.Empty(t, view.Draft.Body.Blocks)
	assert.Contains(t, view.LastError, "Upload failed")
}

func TestSecondUploadIsRejectedWhileOneIsInFlight(t *testing.T) {
	ctx := context.Background()
	c, _, store := newTestController(t, newFakePosts())
	store.gate = newGate()

	done := make(chan error, 1)
	go func() {
		_, err := c.UploadMedia(ctx, Media{Name: "a.png", Body: strings.NewReader("x")}, Target{})
		done <- err
	}()
	<-store.gate.entered

	assert.Equal(t, StateUploading, c.State())
	assert.True(t, c.Busy())
	_, err := c.UploadMedia(ctx, Media{Name: "b.png", Body: strings.NewReader("x")}, Target{})
	assert.ErrorIs(t, err, ErrUploadInProgress)
	assert.NoError(t, c.ApplyFields(ctx, Fields{Excerpt: ptr("edits continue during uploads")}))

	close(store.gate.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateEditing, c.State())
	assert.Contains(t, c.Draft().Body.Markdown, "![a](")
}

func TestPreviewWaitsForInFlightUpload(t *testing.T) {
	ctx := context.Background()
	c, _, store := newTestController(t, newFakePosts())
	store.gate = newGate()

	done := make(chan error, 1)
	go func() {
		_, err := c.UploadMedia(ctx, Media{Name: "a.png", Body: strings.NewReader("x")}, Target{})
		done <- err
	}()
	<-store.gate.entered

	_, err := c.Preview()
	assert.ErrorIs(t, err, ErrUploadInProgress)
	assert.Equal(t, StateUploading, c.State())

	close(store.gate.release)
	require.NoError(t, <-done)

	html, err := c.Preview()
	require.NoError(t, err)
	assert.Equal(t, StatePreviewing, c.State())
	assert.Contains(t, html, "https://cdn.test/general/a.png")
}

func TestPreviewIsRefusedWhileSaving(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	posts.gate = newGate()
	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, validFields()))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, IntentSave)
		done <- err
	}()
	<-posts.gate.entered

	_, err := c.Preview()
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(posts.gate.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateEditing, c.State())
}

func TestSecondSubmitIsRejectedWhileSaving(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	posts.gate = newGate()
	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, validFields()))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, IntentPublish)
		done <- err
	}()
	<-posts.gate.entered

	assert.Equal(t, StateSaving, c.State())
	_, err := c.Submit(ctx, IntentPublish)
	assert.ErrorIs(t, err, ErrSaveInProgress)
	assert.ErrorIs(t, c.ApplyFields(ctx, Fields{Title: ptr("late")}), ErrSaveInProgress)

	close(posts.gate.release)
	require.NoError(t, <-done)
	creates, _ := posts.counts()
	assert.Equal(t, 1, creates)
	d := c.Draft()
	assert.Equal(t, models.PostPublished, d.Status)
	assert.Equal(t, "Hello World", d.Title)
}

func TestSubmitTimeoutIsANormalFailure(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	posts.gate = &gate{entered: make(chan struct{}, 1), release: make(chan struct{})}
	cats := defaultCategories()
	deps := testDeps(posts, cats, &fakeStorage{})
	deps.Timeout = 20 * time.Millisecond
	c := NewController(NewDraft(), "", deps)
	require.NoError(t, c.ApplyFields(ctx, validFields()))

	_, err := c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	view := c.View()
	assert.Equal(t, StateEditing, view.EditorState)
	assert.Contains(t, view.LastError, "timed out")
	assert.Equal(t, "Hello World", view.Draft.Title)
	assert.True(t, view.Draft.IsNew())
}

func TestSubmitBackendFailurePreservesDraft(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	posts.err = errBackend
	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, validFields()))

	_, err := c.Submit(ctx, IntentPublish)
	require.ErrorIs(t, err, errBackend)
	view := c.View()
	assert.Equal(t, "Could not save the post", view.LastError)
	assert.Equal(t, models.PostDraft, view.Draft.Status)
	assert.Equal(t, "Some content", view.Draft.Body.Markdown)
}

func TestSubmitSlugTakenBecomesFieldError(t *testing.T) {
	ctx := context.Background()
	posts := post.NewService(dbtest.New(t))
	_, err := posts.Create(ctx, &models.PostModel{Title: "Other", Slug: "hello-world", Service: "crypto", Content: "x"})
	require.NoError(t, err)

	c, _, _ := newTestController(t, posts)
	require.NoError(t, c.ApplyFields(ctx, validFields()))
	_, err = c.Submit(ctx, IntentSave)
	require.ErrorIs(t, err, post.ErrSlugTaken)
	assert.Contains(t, c.View().Errors, FieldSlug)
}

func TestSubmitIntentsResolveStatusAndSchedule(t *testing.T) {
	ctx := context.Background()
	posts := post.NewService(dbtest.New(t))
	c, _, _ := newTestController(t, posts)

	f := validFields()
	f.ScheduledDate = ptr("2024-05-02")
	f.ScheduledTime = ptr("10:30")
	require.NoError(t, c.ApplyFields(ctx, f))

	res, err := c.Submit(ctx, IntentSchedule)
	require.NoError(t, err)
	assert.Equal(t, models.PostScheduled, res.Post.Status)
	require.NotNil(t, res.Post.ScheduledFor)
	assert.True(t, res.Post.ScheduledFor.Equal(time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)))

	res, err = c.Submit(ctx, IntentSaveDraft)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, models.PostDraft, res.Post.Status)
	assert.Nil(t, res.Post.ScheduledFor)
	assert.Empty(t, c.Draft().ScheduledDate)

	res, err = c.Submit(ctx, IntentPublish)
	require.NoError(t, err)
	assert.Equal(t, models.PostPublished, res.Post.Status)
	require.NotNil(t, res.Post.PublishedAt)
	assert.True(t, res.Post.PublishedAt.Equal(testNow))
	assert.NotNil(t, c.Draft().PublishedAt)

	require.NoError(t, c.ApplyFields(ctx, Fields{ScheduledDate: ptr("2024-04-30"), ScheduledTime: ptr("08:00")}))
	_, err = c.Submit(ctx, IntentSchedule)
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Contains(t, c.View().Errors, FieldScheduledFor)
	assert.Equal(t, models.PostPublished, c.Draft().Status)

	_, err = c.Submit(ctx, "republish")
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestSubmitExistingPostKeepsSlug(t *testing.T) {
	ctx := context.Background()
	posts := post.NewService(dbtest.New(t))
	p, err := posts.Create(ctx, &models.PostModel{
		Title: "Original", Slug: "original", Service: "crypto", Category: "DeFi", Content: "body",
	})
	require.NoError(t, err)

	c := NewController(DraftFromPost(p, time.UTC), "", testDeps(posts, defaultCategories(), &fakeStorage{}))
	require.NoError(t, c.ApplyFields(ctx, Fields{Title: ptr("Renamed")}))
	res, err := c.Submit(ctx, "")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, p.ID, res.ID)
	assert.Equal(t, "Renamed", res.Post.Title)
	assert.Equal(t, "original", res.Post.Slug)
}

func TestSubmitOfDeletedPostFails(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	d := NewDraft()
	d.ID = "gone"
	c := NewController(d, "", testDeps(posts, defaultCategories(), &fakeStorage{}))
	fields := validFields()
	fields.Slug = ptr("hello-world")
	require.NoError(t, c.ApplyFields(ctx, fields))
	_, err := c.Submit(ctx, IntentSave)
	assert.ErrorIs(t, err, ErrPostGone)
	assert.Equal(t, "Could not save the post", c.View().LastError)
}

func contents(blocks []models.ContentBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Content
	}
	return out
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
