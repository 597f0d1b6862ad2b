package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/auth/identity"
	"github.com/handywriterz/core/internal/modules/auth/user"
	"github.com/handywriterz/core/internal/modules/commerce/payment"
	"github.com/handywriterz/core/internal/modules/content/category"
	"github.com/handywriterz/core/internal/modules/content/editor"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/handywriterz/core/internal/modules/inbox/message"
	"github.com/handywriterz/core/internal/modules/storage/file"
	pkgcron "github.com/handywriterz/core/internal/pkg/cron"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() error {
	r := a.router
	db := a.db
	cfg := a.cfg
	log := a.logger

	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)
	r.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{"name": "handywriterz-core", "api": apiPrefix})
	})

	// Identity
	adminProvider, err := identity.NewAdminProvider(db, cfg.Identity.AdminSecret, cfg.Identity.SessionTTL, log.Named("identity.admin"))
	if err != nil {
		return fmt.Errorf("admin identity provider: %w", err)
	}
	siteProvider, err := identity.NewSiteProvider(db, cfg.Identity.SiteSecret, cfg.Identity.SessionTTL, log.Named("identity.site"))
	if err != nil {
		return fmt.Errorf("site identity provider: %w", err)
	}
	adapter := identity.NewAdapter(
		[]identity.Provider{adminProvider, siteProvider},
		identity.WithLogger(log.Named("identity")),
		identity.WithSessionCache(cfg.Identity.CacheTTL, time.Now),
	)
	guard := middleware.NewGuard(adapter, cfg.Identity)
	adminMW := guard.RequireAdmin()

	// Services
	postSvc := post.NewService(db, post.WithCache(a.cache), post.WithLogger(log.Named("post")))
	categorySvc := category.NewService(db, category.WithCache(a.cache), category.WithLogger(log.Named("category")))
	driver, err := file.NewDriver(cfg.Storage, cfg.StaticDir())
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	fileSvc := file.NewService(driver, cfg.Storage.MaxUploadSizeMB, log.Named("file"))
	userSvc := user.NewService(db,
		user.WithLogger(log.Named("user")),
		user.WithChangeHook(func(provider models.Provider, userID string) {
			switch provider {
			case models.ProviderAdmin:
				adminProvider.NotifyUserChanged(userID)
			case models.ProviderSite:
				siteProvider.NotifyUserChanged(userID)
			}
		}),
	)
	paymentSvc := payment.NewService(db, payment.WithLogger(log.Named("payment")))
	messageSvc := message.NewService(db, message.WithLogger(log.Named("message")))
	a.posts = postSvc
	a.editors = editor.NewRegistry(editor.Deps{
		Posts:      postSvc,
		Categories: categorySvc,
		Storage:    fileSvc,
		Timeout:    cfg.Editor.GatewayTimeout,
		Location:   a.loc,
		Log:        log.Named("editor"),
	}, cfg.Editor.IdleTimeout)

	// Files written by the local driver are served by the app itself.
	if local, ok := driver.(*file.LocalDriver); ok && (cfg.Storage.PublicBaseURL == "" || strings.HasPrefix(cfg.Storage.PublicBaseURL, "/")) {
		mount := cfg.Storage.PublicBaseURL
		if mount == "" {
			mount = "/static"
		}
		r.Static(mount, local.Dir())
	}

	signInLimit := middleware.RateLimit(a.rdb, middleware.RateLimitOptions{Name: "sign_in", Max: 10, Window: time.Minute}, log)
	messageLimit := middleware.RateLimit(a.rdb, middleware.RateLimitOptions{Name: "messages", Max: 5, Window: time.Minute}, log)
	idempotence := middleware.Idempotence(a.rdb)

	api := r.Group(apiPrefix)
	identity.NewHandler(adapter, cfg.Identity, !cfg.IsDev(), log.Named("identity")).RegisterRoutes(api, signInLimit)
	post.NewHandler(postSvc, log.Named("post")).RegisterRoutes(api, adminMW)
	category.NewHandler(categorySvc).RegisterRoutes(api, adminMW)
	file.NewHandler(fileSvc).RegisterRoutes(api, adminMW)
	user.NewHandler(userSvc, log.Named("user")).RegisterRoutes(api, adminMW, guard.RequireSession())
	payment.NewHandler(paymentSvc, log.Named("payment")).RegisterRoutes(api, guard.Optional(), adminMW, idempotence)
	message.NewHandler(messageSvc, log.Named("message")).RegisterRoutes(api, guard.Optional(), adminMW, messageLimit, idempotence)
	// submit re-entry is refused by the editor itself
	editor.NewHandler(a.editors, log.Named("editor")).RegisterRoutes(api, adminMW)

	cron := api.Group("/admin/cron", adminMW)
	cron.GET("", func(c *gin.Context) { response.OK(c, a.sched.List()) })
	cron.POST("/:name/run", a.runCronJob)

	a.logger.Info("routes registered", zap.Int("count", len(r.Routes())))
	return nil
}

// runCronJob POST /admin/cron/:name/run  [admin]
func (a *App) runCronJob(c *gin.Context) {
	err := a.sched.Run(c.Request.Context(), c.Param("name"))
	switch {
	case errors.Is(err, pkgcron.ErrJobNotFound):
		response.NotFoundMsg(c, err.Error())
		return
	case err != nil:
		response.Fail(c, http.StatusConflict, err.Error(), nil)
		return
	}
	response.NoContent(c)
}
