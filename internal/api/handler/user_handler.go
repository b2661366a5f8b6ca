package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/internal/middleware"
	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/response"
)

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=255"`
}

// publicUser 他人可见的资料，不含邮箱
type publicUser struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 注册
// @Summary 注册新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response{data=authResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, authResponse{Token: token, User: u})
}

// Login 登录
// @Summary 用户名密码登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=authResponse}
// @Failure 401 {object} response.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: u})
}

// Me 当前用户资料及兴趣
// @Summary 当前用户
// @Tags 用户
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	uid := middleware.UserID(c)
	u, err := h.userService.Profile(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	interests, err := h.ledger.TopInterests(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": u, "interests": interests})
}

// UpdateMe 修改昵称/头像
// @Summary 修改个人资料
// @Tags 用户
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "资料"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /api/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// GetUser 查看他人公开资料
// @Summary 用户资料
// @Tags 用户
// @Security Bearer
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=publicUser}
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userService.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, publicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	})
}

// SearchUsers 按用户名/昵称搜索
// @Summary 搜索用户
// @Tags 用户
// @Security Bearer
// @Produce json
// @Param q query string true "关键字"
// @Success 200 {object} response.Response{data=[]repository.UserSearchResult}
// @Failure 400 {object} response.Response
// @Router /api/users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	res, err := h.friendService.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}
