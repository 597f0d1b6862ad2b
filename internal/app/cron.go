package app

import (
	"context"
	"time"

	pkgcron "github.com/handywriterz/core/internal/pkg/cron"
	"github.com/handywriterz/core/internal/pkg/session"
	"go.uber.org/zap"
)

// registerCronJobs registers the scheduled background jobs.
func (a *App) registerCronJobs() {
	log := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "publish_scheduled",
		Description: "Publish scheduled posts whose time has come",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			_, err := a.posts.PublishDue(ctx)
			return err
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "sweep_editor_sessions",
		Description: "Drop editor sessions idle past editor.idle_timeout",
		Interval:    10 * time.Minute,
		Fn: func(ctx context.Context) error {
			a.editors.Sweep()
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "purge_expired_sessions",
		Description: "Delete expired and revoked sign-in sessions",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := session.PurgeExpired(ctx, a.db, time.Now())
			if err != nil {
				log.Warn("purge sessions failed", zap.Error(err))
				return err
			}
			if n > 0 {
				log.Info("purged sessions", zap.Int64("count", n))
			}
			return nil
		},
	})
}
