package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/internal/middleware"
	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/response"
)

type createStoryRequest struct {
	Text          string `json:"text" binding:"max=2000"`
	MediaURL      string `json:"media_url" binding:"omitempty,max=255"`
	TextOverlay   string `json:"text_overlay"`
	PostType      string `json:"post_type" binding:"omitempty,oneof=story post"`
	DurationHours int    `json:"duration_hours" binding:"omitempty,min=1,max=720"`
}

type swipeRequest struct {
	Direction string `json:"direction" binding:"required,swipedir"`
}

// CreateStory 发布快拍，标签在此时提取
// @Summary 发布快拍
// @Tags 快拍
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body createStoryRequest true "快拍内容"
// @Success 201 {object} response.Response{data=model.Story}
// @Failure 400 {object} response.Response
// @Router /api/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	st, err := h.storyService.Create(c.Request.Context(), middleware.UserID(c), service.CreateStoryInput{
		Text:        req.Text,
		MediaURL:    req.MediaURL,
		TextOverlay: req.TextOverlay,
		Kind:        model.PostKind(req.PostType),
		Duration:    time.Duration(req.DurationHours) * time.Hour,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, st)
}

// Feed 个性化推荐流
// @Summary 推荐流
// @Description 无正向兴趣时按时间倒序，否则按兴趣相关度排序
// @Tags 快拍
// @Security Bearer
// @Produce json
// @Param limit query int false "条数" default(20)
// @Success 200 {object} response.Response{data=[]model.RankedStory}
// @Router /api/stories/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	items, err := h.feedService.GetFeed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if items == nil {
		items = []*model.RankedStory{}
	}
	response.Success(c, items)
}

// MyStories 自己仍可见的快拍
// @Summary 我的快拍
// @Tags 快拍
// @Security Bearer
// @Success 200 {object} response.Response{data=[]model.Story}
// @Router /api/stories/mine [get]
func (h *Handler) MyStories(c *gin.Context) {
	list, err := h.storyService.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []*model.Story{}
	}
	response.Success(c, list)
}

// SwipeStory 记录滑动并更新兴趣
// @Summary 滑动快拍
// @Tags 快拍
// @Security Bearer
// @Accept json
// @Param id path string true "快拍ID"
// @Param request body swipeRequest true "方向 accept|reject|right|left"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/stories/{id}/swipe [post]
func (h *Handler) SwipeStory(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dir, err := model.ParseSwipeDirection(req.Direction)
	if err != nil {
		fail(c, service.ErrInvalidDirection)
		return
	}
	if err := h.storyService.RecordSwipe(c.Request.Context(), middleware.UserID(c), c.Param("id"), dir); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"direction": dir})
}

// ViewStory 标记已看
// @Summary 查看快拍
// @Tags 快拍
// @Security Bearer
// @Param id path string true "快拍ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/stories/{id}/view [post]
func (h *Handler) ViewStory(c *gin.Context) {
	if err := h.storyService.MarkViewed(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// LikeStory 点赞，达到阈值后永久保留
// @Summary 点赞
// @Tags 快拍
// @Security Bearer
// @Param id path string true "快拍ID"
// @Success 200 {object} response.Response{data=repository.LikeResult}
// @Failure 404 {object} response.Response
// @Router /api/stories/{id}/like [post]
func (h *Handler) LikeStory(c *gin.Context) {
	res, err := h.storyService.Like(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// UnlikeStory 取消点赞
// @Summary 取消点赞
// @Tags 快拍
// @Security Bearer
// @Param id path string true "快拍ID"
// @Success 200 {object} response.Response{data=repository.LikeResult}
// @Router /api/stories/{id}/unlike [post]
func (h *Handler) UnlikeStory(c *gin.Context) {
	res, err := h.storyService.Unlike(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// StoryLiked 当前用户是否点过赞
// @Summary 是否已点赞
// @Tags 快拍
// @Security Bearer
// @Param id path string true "快拍ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Router /api/stories/{id}/liked [get]
func (h *Handler) StoryLiked(c *gin.Context) {
	liked, err := h.storyService.Liked(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}

// DeleteStory 删除自己的快拍
// @Summary 删除快拍
// @Tags 快拍
// @Security Bearer
// @Param id path string true "快拍ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/stories/{id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	if err := h.storyService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
