package payment

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/middleware"
	"github.com/handywriterz/core/internal/models"
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

// RegisterRoutes mounts checkout routes behind optionalMW and admin routes behind adminMW.
// extra runs before the checkout handler (e.g. idempotence).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalMW, adminMW gin.HandlerFunc, extra ...gin.HandlerFunc) {
	payments := rg.Group("/payments", optionalMW)
	payments.POST("/checkout", append(append([]gin.HandlerFunc{}, extra...), h.checkout)...)
	payments.POST("/:id/confirm", h.confirm)

	admin := rg.Group("/admin/payments", adminMW)
	admin.GET("", h.list)
	admin.GET("/:id", h.get)
	admin.POST("/:id/refund", h.refund)
}

// checkout POST /payments/checkout
func (h *Handler) checkout(c *gin.Context) {
	var dto CheckoutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Checkout(c.Request.Context(), &dto, middleware.CurrentUserID(c))
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
		h.log.Error("checkout failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(p))
}

// confirm POST /payments/:id/confirm
func (h *Handler) confirm(c *gin.Context) {
	var dto ConfirmDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Confirm(c.Request.Context(), c.Param("id"), dto.Outcome == "success")
	h.respond(c, p, err)
}

// list GET /admin/payments  [admin]
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ps, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(ps), pag)
}

// get GET /admin/payments/:id  [admin]
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, p, err)
}

// refund POST /admin/payments/:id/refund  [admin]
func (h *Handler) refund(c *gin.Context) {
	p, err := h.svc.Refund(c.Request.Context(), c.Param("id"))
	h.respond(c, p, err)
}

func (h *Handler) respond(c *gin.Context, p *models.PaymentModel, err error) {
	switch {
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrNotCompleted):
		response.Conflict(c, err.Error())
	case err != nil:
		h.log.Error("payment update failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.InternalError(c, err)
	case p == nil:
		response.NotFoundMsg(c, "payment not found")
	default:
		response.OK(c, toResponse(p))
	}
}
