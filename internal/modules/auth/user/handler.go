package user

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/pkg/pagination"
	"github.com/handywriterz/core/internal/pkg/response"
	sessionpkg "github.com/handywriterz/core/internal/pkg/session"
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

// RegisterRoutes mounts account management under /admin/users and the signed-in
// account's own routes under /account.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW, sessionMW gin.HandlerFunc) {
	admin := rg.Group("/admin/users", adminMW)
	admin.GET("", h.list)
	admin.POST("", h.create)
	admin.GET("/:id", h.get)
	admin.PATCH("/:id/role", h.updateRole)
	admin.DELETE("/:id", h.delete)

	account := rg.Group("/account", sessionMW)
	account.PATCH("/password", h.changePassword)
	account.GET("/sessions", h.listSessions)
	account.DELETE("/sessions/:sid", h.deleteSession)
}

// list GET /admin/users  [admin]
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	users, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(users), pag)
}

// create POST /admin/users  [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, fieldErrors(verrs))
		case errors.Is(err, ErrUsernameTaken):
			response.Conflict(c, err.Error())
		default:
			h.log.Error("create user failed", zap.Error(err))
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(u))
}

// get GET /admin/users/:id  [admin]
func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(u))
}

// updateRole PATCH /admin/users/:id/role  [admin]
func (h *Handler) updateRole(c *gin.Context) {
	var dto UpdateRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateRole(c.Request.Context(), c.Param("id"), dto.Role)
	switch {
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrRoleFixed):
		response.BadRequest(c, err.Error())
		return
	case err != nil:
		response.InternalError(c, err)
		return
	case u == nil:
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(u))
}

// delete DELETE /admin/users/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.CurrentUserID(c) {
		response.BadRequest(c, "you cannot delete your own account")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("delete user failed", zap.String("id", id), zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// changePassword PATCH /account/password
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword)
	switch {
	case errors.Is(err, ErrWrongPassword):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrPasswordSameAsOld):
		response.UnprocessableEntity(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.NoContent(c)
	}
}

// listSessions GET /account/sessions
func (h *Handler) listSessions(c *gin.Context) {
	s := middleware.CurrentSession(c)
	sessions, err := h.svc.Sessions(c.Request.Context(), s.Provider, s.User.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	data := make([]sessionResponse, 0, len(sessions))
	for _, row := range sessions {
		data = append(data, sessionResponse{
			ID:      row.ID,
			UA:      row.UA,
			IP:      row.IP,
			Date:    row.UpdatedAt,
			Current: row.ID == s.SessionID,
		})
	}
	response.OK(c, data)
}

// deleteSession DELETE /account/sessions/:sid
func (h *Handler) deleteSession(c *gin.Context) {
	s := middleware.CurrentSession(c)
	err := h.svc.RevokeSession(c.Request.Context(), s.Provider, s.User.ID, c.Param("sid"))
	if err != nil && !errors.Is(err, sessionpkg.ErrNotFound) {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func fieldErrors(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = err.Error()
	}
	return out
}
