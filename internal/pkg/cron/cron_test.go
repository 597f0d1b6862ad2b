package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRecordsStatus(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "bad", Interval: time.Hour, Fn: func(context.Context) error { return errors.New("boom") }})

	require.NoError(t, s.Run(context.Background(), "ok"))
	require.EqualError(t, s.Run(context.Background(), "bad"), "boom")
	require.Error(t, s.Run(context.Background(), "missing"))

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "bad", items[0].Name)
	assert.Equal(t, StatusReject, items[0].Status)
	assert.Equal(t, "boom", items[0].Message)
	assert.Equal(t, StatusFulfill, items[1].Status)
	assert.NotNil(t, items[1].LastRunAt)
}

func TestStartRunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 4)
	s := New(nil)
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})
	s.Start(ctx)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}
