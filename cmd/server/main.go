package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/config"
	"github.com/d60-Lab/onyx/internal/api/handler"
	"github.com/d60-Lab/onyx/internal/api/router"
	"github.com/d60-Lab/onyx/internal/cache"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/auth"
	"github.com/d60-Lab/onyx/pkg/database"
	"github.com/d60-Lab/onyx/pkg/logger"
	"github.com/d60-Lab/onyx/pkg/tracing"
)

// @title Onyx API
// @version 1.0
// @description Stories, snaps, streaks and interest-ranked feed.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	// redis 可选：兴趣缓存 + 跨实例的连续天数锁
	var (
		interestCache service.InterestCache
		locker        service.PairLocker = cache.NewLocalPairLocker()
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, falling back to local cache-less mode", zap.Error(err))
		} else {
			interestCache = cache.NewInterestCache(rdb, cfg.Feed.InterestCacheTTL)
			locker = cache.NewRedisPairLocker(rdb, 5*time.Second)
			defer rdb.Close()
		}
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expire)
	h, stopRecorder := buildHandler(cfg, db, tokens, interestCache, locker)

	engine, err := router.New(router.Options{
		Handler:   h,
		Tokens:    tokens,
		RateLimit: cfg.RateLimit,
		Tracing:   cfg.Tracing,
		Swagger:   cfg.Server.Mode != gin.ReleaseMode,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := stopRecorder(shutdownCtx); err != nil {
		logger.Warn("streak recorder did not drain", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}

func buildHandler(cfg *config.Config, db *gorm.DB, tokens *auth.TokenManager, ic service.InterestCache, locker service.PairLocker) (*handler.Handler, func(context.Context) error) {
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	ledger := service.NewInterestLedger(repository.NewInterestRepository(db), repository.NewTagRepository(db), ic, nil)
	streaks := service.NewStreakService(repository.NewStreakRepository(db), locker)

	var recorder *service.StreakRecorder
	stopRecorder := func(context.Context) error { return nil }
	if cfg.Streak.Workers > 0 {
		recorder = service.NewStreakRecorder(streaks, cfg.Streak.Workers, cfg.Streak.QueueSize)
		stopRecorder = recorder.Start()
	}

	h := handler.New(handler.Services{
		Users:   service.NewUserService(userRepo, tokens, bcrypt.DefaultCost),
		Friends: service.NewFriendService(friendRepo, userRepo),
		Snaps:   service.NewSnapService(repository.NewSnapRepository(db), friendRepo, streaks, recorder, nil, cfg.Snap.TTL, cfg.Snap.MaxText),
		Stories: service.NewStoryService(storyRepo, repository.NewSwipeRepository(db), ledger, nil, cfg.Story.TTL, cfg.Story.PermanentThreshold),
		Feed:    service.NewFeedService(storyRepo, ledger, nil, cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit),
		Ledger:  ledger,
		Streaks: streaks,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})
	return h, stopRecorder
}
