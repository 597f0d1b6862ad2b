package editor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/handywriterz/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenAndOwnership(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	posts.posts["p1"] = &models.PostModel{Base: models.Base{ID: "p1"}, Title: "Stored", Slug: "stored", Status: models.PostPublished, Content: "x"}
	reg := NewRegistry(testDeps(posts, defaultCategories(), &fakeStorage{}), time.Hour)

	id, ctrl, err := reg.Open(ctx, "u1", "")
	require.NoError(t, err)
	assert.True(t, ctrl.Draft().IsNew())

	got, err := reg.Get(id, "u1")
	require.NoError(t, err)
	assert.Same(t, ctrl, got)
	_, err = reg.Get(id, "u2")
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = reg.Get("missing", "u1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, existing, err := reg.Open(ctx, "u1", "p1")
	require.NoError(t, err)
	d := existing.Draft()
	assert.Equal(t, "p1", d.ID)
	assert.Equal(t, "stored", d.Slug)
	assert.True(t, d.SlugTouched)

	_, _, err = reg.Open(ctx, "u1", "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, reg.Close(id, "u2"), ErrNotOwner)
	require.NoError(t, reg.Close(id, "u1"))
	assert.ErrorIs(t, reg.Close(id, "u1"), ErrSessionNotFound)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistrySweepKeepsBusyAndFreshSessions(t *testing.T) {
	ctx := context.Background()
	now := testNow
	store := &fakeStorage{gate: newGate()}
	deps := testDeps(newFakePosts(), defaultCategories(), store)
	deps.Now = func() time.Time { return now }
	reg := NewRegistry(deps, time.Hour)

	_, _, err := reg.Open(ctx, "u1", "")
	require.NoError(t, err)
	busyID, busy, err := reg.Open(ctx, "u1", "")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := busy.UploadMedia(ctx, Media{Name: "a.png", Body: strings.NewReader("x")}, Target{Kind: TargetFeatured})
		done <- err
	}()
	<-store.gate.entered

	now = now.Add(2 * time.Hour)
	freshID, _, err := reg.Open(ctx, "u1", "")
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 2, reg.Len())
	_, err = reg.Get(busyID, "u1")
	assert.NoError(t, err)
	_, err = reg.Get(freshID, "u1")
	assert.NoError(t, err)

	close(store.gate.release)
	require.NoError(t, <-done)
}
