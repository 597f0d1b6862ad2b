package editor

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/content/post"
	"github.com/handywriterz/core/internal/modules/storage/file"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler exposes editor sessions over HTTP.
type Handler struct {
	reg *Registry
	log *zap.Logger
}

func NewHandler(reg *Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{reg: reg, log: log}
}

// RegisterRoutes mounts the editor session routes behind adminMW. submitMW
// runs before the submit handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc, submitMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/editor/sessions", adminMW)
	g.POST("", h.open)
	g.GET("/:sid", h.get)
	g.DELETE("/:sid", h.close)
	g.PATCH("/:sid/fields", h.fields)
	g.PUT("/:sid/mode", h.mode)
	g.POST("/:sid/block-form", h.openBlockForm)
	g.DELETE("/:sid/block-form", h.closeBlockForm)
	g.POST("/:sid/blocks", h.insertBlock)
	g.DELETE("/:sid/blocks/:index", h.removeBlock)
	g.POST("/:sid/blocks/:index/move", h.moveBlock)
	g.POST("/:sid/upload", h.upload)
	g.POST("/:sid/preview", h.preview)
	g.DELETE("/:sid/preview", h.exitPreview)
	g.POST("/:sid/submit", append(submitMW, h.submit)...)
}

// open POST /admin/editor/sessions  [admin]
func (h *Handler) open(c *gin.Context) {
	var dto OpenDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	id, ctrl, err := h.reg.Open(c.Request.Context(), middleware.CurrentUserID(c), dto.PostID)
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.NotFoundMsg(c, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(c, "loading the post timed out")
		return
	case err != nil:
		h.log.Error("open editor session failed", zap.String("post", dto.PostID), zap.Error(err))
		response.Fail(c, http.StatusBadGateway, "could not load the post", nil)
		return
	}
	response.Created(c, sessionResponse{SessionID: id, View: ctrl.View()})
}

// get GET /admin/editor/sessions/:sid  [admin]
func (h *Handler) get(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	response.OK(c, ctrl.View())
}

// close DELETE /admin/editor/sessions/:sid  [admin]
func (h *Handler) close(c *gin.Context) {
	if err := h.reg.Close(c.Param("sid"), middleware.CurrentUserID(c)); err != nil {
		h.sessionError(c, err)
		return
	}
	response.NoContent(c)
}

// fields PATCH /admin/editor/sessions/:sid/fields  [admin]
func (h *Handler) fields(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var f Fields
	if err := c.ShouldBindJSON(&f); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.respond(c, ctrl, ctrl.ApplyFields(c.Request.Context(), f))
}

// mode PUT /admin/editor/sessions/:sid/mode  [admin]
func (h *Handler) mode(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var dto ModeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.respond(c, ctrl, ctrl.SetMode(dto.Mode))
}

// openBlockForm POST /admin/editor/sessions/:sid/block-form  [admin]
func (h *Handler) openBlockForm(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var dto BlockFormDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.respond(c, ctrl, ctrl.OpenBlockForm(dto.Type))
}

// closeBlockForm DELETE /admin/editor/sessions/:sid/block-form  [admin]
func (h *Handler) closeBlockForm(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.respond(c, ctrl, ctrl.CloseBlockForm())
}

// insertBlock POST /admin/editor/sessions/:sid/blocks  [admin]
func (h *Handler) insertBlock(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var b models.ContentBlock
	if err := c.ShouldBindJSON(&b); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.respond(c, ctrl, ctrl.InsertBlock(b))
}

// removeBlock DELETE /admin/editor/sessions/:sid/blocks/:index  [admin]
func (h *Handler) removeBlock(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "index must be a number")
		return
	}
	h.respond(c, ctrl, ctrl.RemoveBlock(index))
}

// moveBlock POST /admin/editor/sessions/:sid/blocks/:index/move  [admin]
func (h *Handler) moveBlock(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "index must be a number")
		return
	}
	var dto MoveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dir, _ := ParseDirection(dto.Direction)
	h.respond(c, ctrl, ctrl.MoveBlock(index, dir))
}

// upload POST /admin/editor/sessions/:sid/upload  [admin]
// multipart: file, target (inline|new-block|block|featured), cursor, index
func (h *Handler) upload(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	target := Target{Kind: TargetKind(c.PostForm("target"))}
	if raw := c.PostForm("cursor"); raw != "" {
		cursor, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "cursor must be a number")
			return
		}
		target.Cursor = &cursor
	}
	if raw := c.PostForm("index"); raw != "" {
		if target.Index, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(c, "index must be a number")
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	obj, err := ctrl.UploadMedia(c.Request.Context(), Media{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, target)
	if err != nil {
		h.fail(c, ctrl, err)
		return
	}
	response.OK(c, uploadResponse{URL: obj.URL, Path: obj.Path, View: ctrl.View()})
}

// preview POST /admin/editor/sessions/:sid/preview  [admin]
func (h *Handler) preview(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	html, err := ctrl.Preview()
	if err != nil {
		h.fail(c, ctrl, err)
		return
	}
	response.OK(c, previewResponse{HTML: html, View: ctrl.View()})
}

// exitPreview DELETE /admin/editor/sessions/:sid/preview  [admin]
func (h *Handler) exitPreview(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.ExitPreview()
	response.OK(c, ctrl.View())
}

// submit POST /admin/editor/sessions/:sid/submit  [admin]
func (h *Handler) submit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var dto SubmitDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	intent, err := ParseIntent(dto.Intent)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := ctrl.Submit(c.Request.Context(), intent)
	if err != nil {
		h.fail(c, ctrl, err)
		return
	}
	if res.Created {
		c.JSON(http.StatusCreated, submitResponse{Result: res, View: ctrl.View()})
		return
	}
	response.OK(c, submitResponse{Result: res, View: ctrl.View()})
}

func (h *Handler) controller(c *gin.Context) (*Controller, bool) {
	ctrl, err := h.reg.Get(c.Param("sid"), middleware.CurrentUserID(c))
	if err != nil {
		h.sessionError(c, err)
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Fail(c, http.StatusForbidden, err.Error(), nil)
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) respond(c *gin.Context, ctrl *Controller, err error) {
	if err != nil {
		h.fail(c, ctrl, err)
		return
	}
	response.OK(c, ctrl.View())
}

// fail maps a controller error to a status. The body still carries the view.
func (h *Handler) fail(c *gin.Context, ctrl *Controller, err error) {
	view := ctrl.View()
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrPreviewing), errors.Is(err, ErrSaveInProgress), errors.Is(err, ErrUploadInProgress):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidDraft), errors.Is(err, post.ErrSlugTaken):
		response.Fail(c, http.StatusUnprocessableEntity, "validation failed", gin.H{"errors": view.Errors, "view": view})
		return
	case errors.Is(err, ErrEmptyBlock):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrInvalidBlock), errors.Is(err, ErrInvalidMode),
		errors.Is(err, ErrInvalidField), errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrUnknownIntent),
		errors.Is(err, file.ErrInvalidPath):
		status = http.StatusBadRequest
	case errors.Is(err, file.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, file.ErrUnsupportedType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, ErrPostGone):
		status = http.StatusNotFound
	}
	message := err.Error()
	if view.LastError != "" && status >= http.StatusInternalServerError {
		message = view.LastError
	}
	response.Fail(c, status, message, gin.H{"view": view})
}
