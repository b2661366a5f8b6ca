package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/response"
)

// Services handler 依赖的业务服务
type Services struct {
	Users   service.UserService
	Friends service.FriendService
	Snaps   service.SnapService
	Stories service.StoryService
	Feed    service.FeedService
	Ledger  service.InterestLedger
	Streaks service.StreakService
	// Ping 健康检查，通常是数据库 ping
	Ping func(ctx context.Context) error
}

type Handler struct {
	userService   service.UserService
	friendService service.FriendService
	snapService   service.SnapService
	storyService  service.StoryService
	feedService   service.FeedService
	ledger        service.InterestLedger
	streakService service.StreakService
	ping          func(ctx context.Context) error
}

func New(s Services) *Handler {
	return &Handler{
		userService:   s.Users,
		friendService: s.Friends,
		snapService:   s.Snaps,
		storyService:  s.Stories,
		feedService:   s.Feed,
		ledger:        s.Ledger,
		streakService: s.Streaks,
		ping:          s.Ping,
	}
}

// fail 业务错误到 HTTP 状态的映射
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, service.ErrSnapNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStreakNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrMissingID),
		errors.Is(err, service.ErrEmptyStory),
		errors.Is(err, service.ErrEmptySnap),
		errors.Is(err, service.ErrTextTooLong),
		errors.Is(err, service.ErrFriendSelf),
		errors.Is(err, service.ErrEmptyQuery):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFriends):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrUserExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
