package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/onyx/config"
	_ "github.com/d60-Lab/onyx/docs"
	"github.com/d60-Lab/onyx/internal/api/handler"
	"github.com/d60-Lab/onyx/internal/middleware"
)

// Options 路由依赖
type Options struct {
	Handler   *handler.Handler
	Tokens    middleware.TokenParser
	RateLimit config.RateLimitConfig
	Tracing   config.TracingConfig
	Swagger   bool
}

func New(opts Options) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(), middleware.AccessLog())
	if opts.Tracing.Enabled {
		r.Use(otelgin.Middleware(opts.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if opts.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst)))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := opts.Handler
	api := r.Group("/api")
	api.GET("/health", h.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	secured := api.Group("", middleware.Auth(opts.Tokens))

	users := secured.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PUT("/me", h.UpdateMe)
		users.GET("/search", h.SearchUsers)
		users.GET("/:id", h.GetUser)
	}

	friends := secured.Group("/friends")
	{
		friends.POST("", h.AddFriend)
		friends.GET("", h.ListFriends)
		friends.DELETE("/:friend_id", h.RemoveFriend)
		friends.GET("/:friend_id/streak", h.FriendStreak)
	}

	snaps := secured.Group("/snaps")
	{
		snaps.POST("", h.SendSnap)
		snaps.GET("/received", h.ReceivedSnaps)
		snaps.GET("/sent", h.SentSnaps)
		snaps.POST("/:id/view", h.ViewSnap)
	}

	stories := secured.Group("/stories")
	{
		stories.POST("", h.CreateStory)
		stories.GET("/feed", h.Feed)
		stories.GET("/mine", h.MyStories)
		stories.POST("/:id/swipe", h.SwipeStory)
		stories.POST("/:id/view", h.ViewStory)
		stories.POST("/:id/like", h.LikeStory)
		stories.POST("/:id/unlike", h.UnlikeStory)
		stories.GET("/:id/liked", h.StoryLiked)
		stories.DELETE("/:id", h.DeleteStory)
	}
	return r, nil
}
