package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/config"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

// SignInDTO is the password sign-in request body.
type SignInDTO struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

type signInResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type meResponse struct {
	Authenticated bool  `json:"authenticated"`
	IsAdmin       bool  `json:"isAdmin"`
	User          *User `json:"user"`
}

// Handler serves sign-in, sign-out and current-user routes.
type Handler struct {
	adapter *Adapter
	cfg     config.IdentityConfig
	secure  bool
	log     *zap.Logger
}

// NewHandler builds the auth routes. secure marks cookies Secure.
func NewHandler(adapter *Adapter, cfg config.IdentityConfig, secure bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{adapter: adapter, cfg: cfg, secure: secure, log: log}
}

// Cookies returns the cookie names credentials are read from.
func (h *Handler) Cookies() CookieNames {
	return CookieNames{Admin: h.cfg.AdminCookie, Site: h.cfg.SiteCookie}
}

// RegisterRoutes mounts /auth routes. signInMW, when set, guards the sign-in endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, signInMW ...gin.HandlerFunc) {
	auth := rg.Group("/auth")
	adminChain := append(append([]gin.HandlerFunc{}, signInMW...), h.signIn(models.ProviderAdmin))
	siteChain := append(append([]gin.HandlerFunc{}, signInMW...), h.signIn(models.ProviderSite))
	auth.POST("/admin/sign-in", adminChain...)
	auth.POST("/site/sign-in", siteChain...)
	auth.POST("/sign-out", h.signOut)
	auth.GET("/me", h.me)
}

// signIn POST /auth/{admin,site}/sign-in
func (h *Handler) signIn(provider models.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto SignInDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		s, err := h.adapter.SignIn(c.Request.Context(), provider, SignInRequest{
			Identifier: dto.Identifier,
			Password:   dto.Password,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.UnprocessableEntity(c, err.Error())
			return
		case err != nil:
			h.log.Error("sign-in failed", zap.String("provider", string(provider)), zap.Error(err))
			response.InternalError(c, err)
			return
		}
		h.setCookie(c, h.cookieFor(provider), s.Token, h.cfg.SessionTTL)
		response.OK(c, signInResponse{Token: s.Token, User: s.User})
	}
}

// signOut POST /auth/sign-out
func (h *Handler) signOut(c *gin.Context) {
	creds := FromRequest(c, h.Cookies())
	if err := h.adapter.SignOut(c.Request.Context(), creds); err != nil {
		h.log.Warn("sign-out incomplete", zap.Error(err))
	}
	h.setCookie(c, h.cfg.AdminCookie, "", -time.Second)
	h.setCookie(c, h.cfg.SiteCookie, "", -time.Second)
	c.Redirect(http.StatusSeeOther, h.cfg.LoginPath)
}

// me GET /auth/me
func (h *Handler) me(c *gin.Context) {
	s, admin := h.adapter.Access(c.Request.Context(), FromRequest(c, h.Cookies()))
	resp := meResponse{Authenticated: s != nil, IsAdmin: admin}
	if s != nil {
		u := s.User
		resp.User = &u
	}
	response.OK(c, resp)
}

func (h *Handler) cookieFor(provider models.Provider) string {
	if provider == models.ProviderAdmin {
		return h.cfg.AdminCookie
	}
	return h.cfg.SiteCookie
}

func (h *Handler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	if name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl/time.Second), "/", "", h.secure, true)
}
