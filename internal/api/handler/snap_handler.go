package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/internal/middleware"
	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/response"
)

type sendSnapRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Text       string `json:"text"`
	MediaURL   string `json:"media_url" binding:"omitempty,max=255"`
}

// SendSnap 发送消息，同时推进与对方的连续天数
// @Summary 发送 snap
// @Tags 消息
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body sendSnapRequest true "消息"
// @Success 201 {object} response.Response{data=model.Snap}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/snaps [post]
func (h *Handler) SendSnap(c *gin.Context) {
	var req sendSnapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	snap, err := h.snapService.Send(c.Request.Context(), middleware.UserID(c), service.SendSnapInput{
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		MediaURL:   req.MediaURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, snap)
}

// ReceivedSnaps 收到的未过期消息
// @Summary 收件箱
// @Tags 消息
// @Security Bearer
// @Success 200 {object} response.Response{data=[]model.Snap}
// @Router /api/snaps/received [get]
func (h *Handler) ReceivedSnaps(c *gin.Context) {
	list, err := h.snapService.ListReceived(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// SentSnaps 发出的未过期消息
// @Summary 发件箱
// @Tags 消息
// @Security Bearer
// @Success 200 {object} response.Response{data=[]model.Snap}
// @Router /api/snaps/sent [get]
func (h *Handler) SentSnaps(c *gin.Context) {
	list, err := h.snapService.ListSent(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// ViewSnap 接收方标记已读
// @Summary 查看 snap
// @Tags 消息
// @Security Bearer
// @Param id path string true "snap ID"
// @Success 200 {object} response.Response{data=model.Snap}
// @Failure 404 {object} response.Response
// @Router /api/snaps/{id}/view [post]
func (h *Handler) ViewSnap(c *gin.Context) {
	snap, err := h.snapService.View(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}
