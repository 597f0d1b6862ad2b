package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/config"
	"github.com/handywriterz/core/internal/database"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/modules/content/editor"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/handywriterz/core/internal/pkg/cache"
	pkgcron "github.com/handywriterz/core/internal/pkg/cron"
	pkgredis "github.com/handywriterz/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *gorm.DB
	rdb     *pkgredis.Client
	cache   cache.Cache
	loc     *time.Location
	logger  *zap.Logger
	cancel  context.CancelFunc
	sched   *pkgcron.Scheduler
	editors *editor.Registry
	posts   *post.Service
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := applyRuntimeSettings(cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureSecrets(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, cfg.IsDev())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		rc, err = pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Info("redis disabled, rate limiting and idempotence are off")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	a := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rdb:    rc,
		cache:  newQueryCache(cfg, rc),
		loc:    loc,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(logger.Named("cron")),
	}
	if err := a.registerRoutes(); err != nil {
		cancel()
		return nil, err
	}
	a.registerCronJobs()
	go a.sched.Start(ctx)

	return a, nil
}

// newQueryCache picks the read cache: redis when available, else in-process.
func newQueryCache(cfg *config.AppConfig, rc *pkgredis.Client) cache.Cache {
	switch {
	case !cfg.Cache.Enable:
		return cache.Nop{}
	case rc != nil:
		return cache.NewRedis(rc, "hw:cache:", cfg.Cache.TTL)
	default:
		return cache.NewMemory(cfg.Cache.TTL, nil)
	}
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Site-Token", middleware.IdempotenceHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and releases connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
