package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/pkg/logger"
	"github.com/d60-Lab/onyx/pkg/response"
)

// Recovery 捕获 panic，上报 sentry 后返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			hub.RecoverWithContext(c.Request.Context(), rec)
			hub.Flush(2 * time.Second)
			logger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")))
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			})
		}()
		c.Next()
	}
}
