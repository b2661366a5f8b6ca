package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/pkg/logger"
)

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: msg, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

func BadRequest(c *gin.Context, msg string) {
	write(c, http.StatusBadRequest, msg, nil)
}

func Unauthorized(c *gin.Context, msg string) {
	write(c, http.StatusUnauthorized, msg, nil)
}

func Forbidden(c *gin.Context, msg string) {
	write(c, http.StatusForbidden, msg, nil)
}

func NotFound(c *gin.Context, msg string) {
	write(c, http.StatusNotFound, msg, nil)
}

func Conflict(c *gin.Context, msg string) {
	write(c, http.StatusConflict, msg, nil)
}

func TooManyRequests(c *gin.Context) {
	write(c, http.StatusTooManyRequests, "too many requests", nil)
}

// InternalError 记录日志并上报 sentry，不向客户端暴露细节
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err))
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	write(c, http.StatusInternalServerError, "internal server error", nil)
}
