package message

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

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

// RegisterRoutes mounts the public send route behind optionalMW and the inbox behind adminMW.
// extra runs before the send handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalMW, adminMW gin.HandlerFunc, extra ...gin.HandlerFunc) {
	rg.POST("/messages", append([]gin.HandlerFunc{optionalMW}, append(extra, h.send)...)...)

	admin := rg.Group("/admin/messages", adminMW)
	admin.GET("", h.list)
	admin.GET("/unread-count", h.unreadCount)
	admin.GET("/:id", h.thread)
	admin.PATCH("/:id/read", h.markRead)
	admin.POST("/:id/reply", h.reply)
	admin.DELETE("/:id", h.delete)
}

// send POST /messages
func (h *Handler) send(c *gin.Context) {
	var dto SendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Send(c.Request.Context(), &dto, middleware.CurrentUserID(c))
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for k, v := range verrs {
				fields[k] = v.Error()
			}
			response.ValidationFailed(c, fields)
			return
		}
		h.log.Error("send message failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// list GET /admin/messages  [admin]
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ms, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(ms), pag)
}

// unreadCount GET /admin/messages/unread-count  [admin]
func (h *Handler) unreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": n})
}

// thread GET /admin/messages/:id  [admin]
func (h *Handler) thread(c *gin.Context) {
	m, replies, err := h.svc.Thread(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "message not found")
		return
	}
	response.OK(c, threadResponse{messageResponse: toResponse(m), Replies: toResponses(replies)})
}

// markRead PATCH /admin/messages/:id/read  [admin]
func (h *Handler) markRead(c *gin.Context) {
	m, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "message not found")
		return
	}
	response.OK(c, toResponse(m))
}

// reply POST /admin/messages/:id/reply  [admin]
func (h *Handler) reply(c *gin.Context) {
	var dto ReplyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	name := "HandyWriterz"
	if s := middleware.CurrentSession(c); s != nil && s.User.Name != "" {
		name = s.User.Name
	}
	m, err := h.svc.Reply(c.Request.Context(), c.Param("id"), dto.Body, name)
	switch {
	case errors.Is(err, ErrEmptyReply):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	case m == nil:
		response.NotFoundMsg(c, "message not found")
	default:
		response.Created(c, toResponse(m))
	}
}

// delete DELETE /admin/messages/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
