package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/pkg/response"
)

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Response{Code: http.StatusServiceUnavailable, Message: "database unavailable"})
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
