package post

import (
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts public post routes and admin routes guarded by adminMW.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	posts := rg.Group("/posts")
	posts.GET("", h.listPublished)
	posts.GET("/:service/:slug", h.getPublished)

	admin := rg.Group("/admin/posts", adminMW)
	admin.GET("", h.list)
	admin.GET("/:id", h.get)
	admin.PATCH("/:id/status", h.setStatus)
	admin.DELETE("/:id", h.delete)
}

// listPublished GET /posts
func (h *Handler) listPublished(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.respondList(c, ListFilter{
		Service:       lq.Service,
		Category:      lq.Category,
		Tag:           lq.Tag,
		Search:        lq.Search,
		PublishedOnly: true,
	})
}

// getPublished GET /posts/:service/:slug
func (h *Handler) getPublished(c *gin.Context) {
	post, err := h.svc.GetPublished(c.Request.Context(), c.Param("service"), c.Param("slug"))
	if err != nil {
		h.log.Error("get post failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// list GET /admin/posts  [admin]
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	status := models.PostStatus(lq.Status)
	if status != "" && !status.Valid() {
		response.BadRequest(c, "unknown status")
		return
	}
	h.respondList(c, ListFilter{
		Service:  lq.Service,
		Category: lq.Category,
		Tag:      lq.Tag,
		Search:   lq.Search,
		Status:   status,
	})
}

func (h *Handler) respondList(c *gin.Context, f ListFilter) {
	posts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), f)
	if err != nil {
		h.log.Error("list posts failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(posts), pag)
}

// get GET /admin/posts/:id  [admin]
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// setStatus PATCH /admin/posts/:id/status  [admin]
func (h *Handler) setStatus(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	// scheduling needs a date and goes through the editor
	if !dto.Status.Valid() || dto.Status == models.PostScheduled {
		response.BadRequest(c, "status must be draft, published or archived")
		return
	}
	post, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// delete DELETE /admin/posts/:id?confirm=true  [admin]
func (h *Handler) delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.BadRequest(c, "deleting a post requires confirm=true")
		return
	}
	id := c.Param("id")
	post, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("delete post failed", zap.String("id", id), zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
