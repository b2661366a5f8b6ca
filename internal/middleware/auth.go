package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/pkg/response"
)

// ContextUserID gin 上下文中当前用户 ID 的键
const ContextUserID = "user_id"

// TokenParser 解析访问令牌；auth.TokenManager 实现
type TokenParser interface {
	Parse(token string) (string, error)
}

// Auth 校验 Bearer 令牌并写入当前用户
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		uid, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, uid)
		c.Next()
	}
}

// UserID 取当前用户，Auth 之后使用
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
