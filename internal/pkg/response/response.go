package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPage   int   `json:"totalPage"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"hasNextPage"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func errorBody(code int, message string) gin.H {
	return gin.H{"ok": 0, "code": code, "message": message}
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, message))
}

// Unauthorized sends a 401 error response pointing the client at the login entry.
func Unauthorized(c *gin.Context, redirect string) {
	body := errorBody(http.StatusUnauthorized, "sign in required")
	if redirect != "" {
		body["redirect"] = redirect
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// Forbidden sends a 403 error response pointing the client at the unauthorized view.
func Forbidden(c *gin.Context, redirect string) {
	body := errorBody(http.StatusForbidden, "you do not have access to this area")
	if redirect != "" {
		body["redirect"] = redirect
	}
	c.AbortWithStatusJSON(http.StatusForbidden, body)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorBody(http.StatusNotFound, "not found"))
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorBody(http.StatusNotFound, message))
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errorBody(http.StatusMethodNotAllowed, "method not allowed"))
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, err.Error()))
}

// UnprocessableEntity sends a 422 error response.
func UnprocessableEntity(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorBody(http.StatusUnprocessableEntity, message))
}

// ValidationFailed sends a 422 response carrying field-keyed messages.
func ValidationFailed(c *gin.Context, fields map[string]string) {
	body := errorBody(http.StatusUnprocessableEntity, "validation failed")
	body["errors"] = fields
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, errorBody(http.StatusConflict, message))
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody(http.StatusTooManyRequests, message))
}

// GatewayTimeout sends a 504 error response.
func GatewayTimeout(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusGatewayTimeout, errorBody(http.StatusGatewayTimeout, message))
}

// Fail sends an error envelope of status with extra merged into it.
func Fail(c *gin.Context, status int, message string, extra gin.H) {
	body := errorBody(status, message)
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}
