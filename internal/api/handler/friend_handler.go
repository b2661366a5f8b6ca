package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/internal/middleware"
	"github.com/d60-Lab/onyx/pkg/response"
)

type addFriendRequest struct {
	FriendID string `json:"friend_id" binding:"required"`
}

// AddFriend 添加好友（双向）
// @Summary 添加好友
// @Tags 好友
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body addFriendRequest true "好友ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/friends [post]
func (h *Handler) AddFriend(c *gin.Context) {
	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.friendService.Add(c.Request.Context(), middleware.UserID(c), req.FriendID); err != nil {
		fail(c, err)
		return
	}
	response.Created(c, nil)
}

// RemoveFriend 删除好友
// @Summary 删除好友
// @Tags 好友
// @Security Bearer
// @Param friend_id path string true "好友ID"
// @Success 200 {object} response.Response
// @Router /api/friends/{friend_id} [delete]
func (h *Handler) RemoveFriend(c *gin.Context) {
	if err := h.friendService.Remove(c.Request.Context(), middleware.UserID(c), c.Param("friend_id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFriends 好友列表，按连续天数排序
// @Summary 好友列表（含连续天数）
// @Tags 好友
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response{data=[]repository.FriendSummary}
// @Router /api/friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	list, err := h.friendService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// FriendStreak 与某位好友的连续天数
// @Summary 连续天数
// @Tags 好友
// @Security Bearer
// @Produce json
// @Param friend_id path string true "好友ID"
// @Success 200 {object} response.Response{data=model.Streak}
// @Failure 404 {object} response.Response
// @Router /api/friends/{friend_id}/streak [get]
func (h *Handler) FriendStreak(c *gin.Context) {
	st, err := h.streakService.Get(c.Request.Context(), middleware.UserID(c), c.Param("friend_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}
