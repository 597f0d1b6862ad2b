package file

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/pkg/response"
)

// Handler exposes upload, delete and public URL resolution.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.GET("/files/url", h.publicURL)

	admin := rg.Group("/admin/files", adminMW)
	admin.POST("/upload", h.upload)
	admin.DELETE("", h.delete)
}

// upload POST /admin/files/upload  multipart: file, folder
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	obj, err := h.svc.Upload(c.Request.Context(), c.PostForm("folder"), fileHeader.Filename, f,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, obj)
}

// delete DELETE /admin/files?path=
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Query("path")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// publicURL GET /files/url?path=
func (h *Handler) publicURL(c *gin.Context) {
	url, err := h.svc.PublicURL(c.Query("path"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, urlResponse{URL: url})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPath), errors.Is(err, ErrUnsupportedType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrTooLarge):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
