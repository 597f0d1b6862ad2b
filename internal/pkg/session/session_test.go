package session

import (
	"context"
	"testing"
	"time"

	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueRevoke(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	store := NewStore(db, models.ProviderAdmin)

	row, err := store.Issue(ctx, "user-1", " 10.0.0.1 ", "agent", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", row.IP)

	ok, err := store.IsActive(ctx, "user-1", row.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Revoke(ctx, "user-1", row.ID))
	ok, err = store.IsActive(ctx, "user-1", row.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, store.Revoke(ctx, "user-1", row.ID), ErrNotFound)
}

func TestSessionsAreScopedByProvider(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	admin := NewStore(db, models.ProviderAdmin)
	site := NewStore(db, models.ProviderSite)

	row, err := site.Issue(ctx, "user-1", "", "", time.Hour)
	require.NoError(t, err)

	ok, err := admin.IsActive(ctx, "user-1", row.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredSessionIsInactiveAndPurged(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	store := NewStore(db, models.ProviderSite)
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	row, err := store.Issue(ctx, "user-1", "", "", time.Hour)
	require.NoError(t, err)

	store.now = time.Now
	ok, err := store.IsActive(ctx, "user-1", row.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := PurgeExpired(ctx, db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
