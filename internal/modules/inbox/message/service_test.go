package message

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendValidatesAndNormalizes(t *testing.T) {
	svc := NewService(dbtest.New(t))

	m, err := svc.Send(context.Background(), &SendDTO{Name: " Ann ", Email: "Ann@Example.com", Subject: "Deadline", Body: " Can you help? "}, "")
	require.NoError(t, err)
	assert.Equal(t, "Ann", m.Name)
	assert.Equal(t, "ann@example.com", m.Email)
	assert.Equal(t, "Can you help?", m.Body)
	assert.Nil(t, m.SenderID)

	_, err = svc.Send(context.Background(), &SendDTO{Email: "nope", Body: "   "}, "")
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "body")
}

func TestReplyThreadsAndMarksRead(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(dbtest.New(t), WithClock(func() time.Time { return now }))

	m, err := svc.Send(ctx, &SendDTO{Email: "ann@example.com", Subject: "Deadline", Body: "Help"}, "user-1")
	require.NoError(t, err)
	_, err = svc.Send(ctx, &SendDTO{Email: "bob@example.com", Body: "Hi"}, "")
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.Reply(ctx, m.ID, "  ", "Admin")
	assert.ErrorIs(t, err, ErrEmptyReply)

	reply, err := svc.Reply(ctx, m.ID, "On it", "Admin")
	require.NoError(t, err)
	assert.True(t, reply.FromAdmin)
	assert.Equal(t, "Re: Deadline", reply.Subject)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, m.ID, *reply.ParentID)

	// replying to a reply stays in the root thread
	second, err := svc.Reply(ctx, reply.ID, "Done", "Admin")
	require.NoError(t, err)
	assert.Equal(t, m.ID, *second.ParentID)
	assert.Equal(t, "Re: Deadline", second.Subject)

	root, replies, err := svc.Thread(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, root.ReadAt)
	assert.Len(t, replies, 2)

	unread, _, err := svc.List(ctx, pagination.New(1, 10), ListQuery{Unread: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "bob@example.com", unread[0].Email)

	all, _, err := svc.List(ctx, pagination.New(1, 10), ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	missing, err := svc.Reply(ctx, "nope", "x", "Admin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, svc.Delete(ctx, m.ID))
	root, replies, err = svc.Thread(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, root)
	assert.Empty(t, replies)
}

func TestMarkReadIsStable(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(dbtest.New(t), WithClock(func() time.Time { return now }))

	m, err := svc.Send(ctx, &SendDTO{Email: "ann@example.com", Body: "Help"}, "")
	require.NoError(t, err)

	first, err := svc.MarkRead(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	now = now.Add(time.Hour)
	again, err := svc.MarkRead(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(*first.ReadAt))

	missing, err := svc.MarkRead(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
